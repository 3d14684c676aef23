package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fuse/internal/config"
	"github.com/vango-dev/fuse/internal/demo"
	"github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/live"
	"github.com/vango-dev/fuse/pkg/middleware"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		app       string
		port      int
		host      string
		noMetrics bool
		tracing   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo application over websockets",
		Long: `Serve a demo application to browsers.

Every browser tab gets its own live session: the application runs on
the server and the page mirrors its document over a websocket.

Examples:
  fuse serve
  fuse serve --app todo --port 8080
  fuse serve --host 0.0.0.0 --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if app != "" {
				cfg.App = app
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if noMetrics {
				cfg.Metrics.Enabled = false
			}
			if tracing {
				cfg.Tracing.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&app, "app", "a", "", "Demo to serve: "+joinNames()+" (default from "+config.ConfigFileName+")")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from "+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the Prometheus endpoint")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Wrap requests and events in OpenTelemetry spans")

	return cmd
}

// newServer builds the live server described by cfg.
func newServer(cfg *config.Config, app demo.App) *live.Server {
	logger := setupLogger(cfg, os.Stderr)

	opts := []live.Option{
		live.WithLogger(logger.With("component", "live")),
		live.WithConfig(&live.ServerConfig{
			Title: "fuse · " + app.Title,
			Session: &live.SessionConfig{
				ReadLimit:     cfg.Server.ReadLimit,
				PingInterval:  cfg.PingInterval(),
				WriteTimeout:  cfg.WriteTimeout(),
				MaxDepth:      cfg.Reactive.MaxDepth,
				MaxEventQueue: live.DefaultSessionConfig().MaxEventQueue,
			},
			MetricsPath:     cfg.Metrics.Path,
			ShutdownTimeout: cfg.ShutdownTimeout(),
		}),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, live.WithMetrics(middleware.NewMetrics(middleware.WithRegistry(reg)), reg))
	}
	if app.API != nil {
		opts = append(opts, live.WithHandler("/api", app.API))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, live.WithTracing(middleware.NewTracing(middleware.WithTracerName(cfg.Tracing.TracerName))))
	}

	return live.NewServer(app.Build, opts...)
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	app, err := demo.Lookup(cfg.App)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out)
	success(out, "%s on %s", app.Title, cfg.URL())
	if cfg.Metrics.Enabled {
		info(out, "metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
	}

	srv := newServer(cfg, app)
	if err := srv.ListenAndServe(ctx, cfg.Address()); err != nil {
		return errors.FromError(err, "E141")
	}
	return nil
}
