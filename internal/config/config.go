package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/fuse/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fuse.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultApp is the demo served when none is configured.
	DefaultApp = "counter"

	// DefaultReadLimit is the maximum size of a client frame in bytes.
	DefaultReadLimit = 64 << 10

	// DefaultPingInterval is the websocket keepalive interval.
	DefaultPingInterval = "30s"

	// DefaultWriteTimeout bounds a single websocket write.
	DefaultWriteTimeout = "10s"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "5s"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the OpenTelemetry tracer name.
	DefaultTracerName = "fuse"

	// DefaultMaxDepth is the default effect nesting limit.
	DefaultMaxDepth = 1000
)

// Config represents the complete fuse.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// App is the demo application served by default.
	App string `json:"app,omitempty"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Reactive contains runtime limits.
	Reactive ReactiveConfig `json:"reactive"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ReadLimit is the maximum client frame size in bytes.
	ReadLimit int64 `json:"readLimit,omitempty"`

	// PingInterval is the websocket keepalive interval (e.g., "30s").
	PingInterval string `json:"pingInterval,omitempty"`

	// WriteTimeout bounds each websocket write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves metrics and instruments sessions.
	Enabled bool `json:"enabled"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled wraps requests and live events in spans.
	Enabled bool `json:"enabled"`

	// TracerName is the tracer to request from the global provider.
	TracerName string `json:"tracerName,omitempty"`
}

// ReactiveConfig contains runtime limits.
type ReactiveConfig struct {
	// MaxDepth is the effect nesting limit before a cycle is reported.
	MaxDepth int `json:"maxDepth,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		App: DefaultApp,
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadLimit:       DefaultReadLimit,
			PingInterval:    DefaultPingInterval,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Reactive: ReactiveConfig{
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// Load reads fuse.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = configPath
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create the file or omit --config to use defaults")
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		fe := errors.New("E100").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
		if offset, ok := decodeOffset(err); ok {
			line, col := jsonLocation(data, offset)
			fe = fe.WithLocation(path, line, col)
		}
		return nil, fe
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// decodeOffset returns the input offset of a JSON syntax or type error.
func decodeOffset(err error) (int64, bool) {
	var syn *json.SyntaxError
	if stderrors.As(err, &syn) {
		return syn.Offset, true
	}
	var typ *json.UnmarshalTypeError
	if stderrors.As(err, &typ) {
		return typ.Offset, true
	}
	return 0, false
}

// jsonLocation converts a byte offset into a 1-based line and column.
func jsonLocation(data []byte, offset int64) (line, col int) {
	offset = min(max(offset, 0), int64(len(data)))
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n') - 1
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E100").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.App == "" {
		c.App = DefaultApp
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.PingInterval == "" {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Metrics and tracing
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}

	if c.Reactive.MaxDepth == 0 {
		c.Reactive.MaxDepth = DefaultMaxDepth
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E101").
			WithDetail("server.port is " + strconv.Itoa(c.Server.Port) + "; it must be between 1 and 65535")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E102").
			WithDetail("log.level is " + strconv.Quote(c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E102").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	if c.Reactive.MaxDepth < 1 {
		return errors.New("E103")
	}
	for name, value := range map[string]string{
		"server.pingInterval":    c.Server.PingInterval,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
	} {
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			return errors.New("E100").
				WithDetail(name + " must be a positive duration such as \"30s\", got " + strconv.Quote(value))
		}
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// PingInterval returns the parsed keepalive interval.
func (c *Config) PingInterval() time.Duration {
	return durationOr(c.Server.PingInterval, DefaultPingInterval)
}

// WriteTimeout returns the parsed websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return durationOr(c.Server.WriteTimeout, DefaultWriteTimeout)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return durationOr(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

func durationOr(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// LogLevel returns the configured slog level, or info when invalid.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
