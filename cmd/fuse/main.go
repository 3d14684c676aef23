package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fuse/internal/config"
	"github.com/vango-dev/fuse/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬ ┬┌─┐┌─┐
  ├┤ │ │└─┐├┤
  └  └─┘└─┘└─┘
`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, rootCmd, err)
		os.Exit(1)
	}
}

// reportError prints err as JSON when logs are JSON and as a
// formatted block otherwise.
func reportError(w io.Writer, rootCmd *cobra.Command, err error) {
	if format, _ := rootCmd.PersistentFlags().GetString("log-format"); format == "json" {
		errors.FprintJSON(w, err)
		return
	}
	errors.Fprint(w, err)
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fine-grained reactive rendering for Go",
		Long: `Fuse binds signals directly to DOM nodes.

There is no virtual DOM: effects update exactly the nodes that read a
changed signal, and keyed lists move the nodes they already have.
Features include:

  • Signals, effects and computed values with automatic tracking
  • A live in-memory DOM that records every mutation
  • Keyed list reconciliation and list virtualization
  • A websocket server that mirrors sessions into the browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default ./"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output (also set by NO_COLOR)")

	rootCmd.AddCommand(
		serveCmd(&flags),
		dumpCmd(&flags),
		benchCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	return cfg, nil
}

// setupLogger installs the configured logger as the default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := cfg.NewLogger(w)
	slog.SetDefault(logger)
	return logger
}

// printBanner prints the fuse banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errors.Colorize("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
