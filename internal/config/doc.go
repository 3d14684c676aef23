// Package config provides configuration parsing for fuse servers.
//
// The configuration is stored in fuse.json in the working directory.
// This package handles loading, saving, and validating configuration.
// Command-line flags override individual fields after loading.
//
// # Configuration File Structure
//
//	{
//	  "app": "todo",
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "readLimit": 65536,
//	    "pingInterval": "30s",
//	    "writeTimeout": "10s",
//	    "shutdownTimeout": "5s"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "fuse"
//	  },
//	  "reactive": {
//	    "maxDepth": 1000
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	logger := cfg.NewLogger(os.Stderr)
package config
