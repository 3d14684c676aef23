// Package middleware instruments fuse with Prometheus metrics and
// OpenTelemetry traces.
//
// # Prometheus Metrics
//
// Metrics implements reactive.Observer, so handing it to a runtime counts
// signal writes and effect runs. Its ObserveMutation method is a
// dom.Observer for counting tree mutations by operation. Middleware wraps a
// chi router and counts requests by route pattern and status code.
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//
//	rt := reactive.NewRuntime(reactive.WithObserver(m))
//	stop := doc.Observe(m.ObserveMutation)
//	defer stop()
//
//	r := chi.NewRouter()
//	r.Use(m.Middleware)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected (namespace "fuse" by default):
//   - fuse_signal_sets_total
//   - fuse_effect_runs_total
//   - fuse_effect_duration_seconds
//   - fuse_effect_errors_total{code}
//   - fuse_dom_mutations_total{op}
//   - fuse_live_sessions
//   - fuse_live_frames_sent_total{type}
//   - fuse_http_requests_total{route,code}
//   - fuse_http_request_duration_seconds{route}
//
// # OpenTelemetry
//
// Tracing creates a server span per HTTP request and a span per live event.
// Spans come from the global tracer provider; configure it in main():
//
//	otel.SetTracerProvider(tp)
//
//	t := middleware.NewTracing(middleware.WithTracerName("my-app"))
//	r.Use(t.Middleware)
//
//	ctx, span := t.StartEventSpan(ctx, "click", target.ID())
//	// dispatch ...
//	middleware.EndEventSpan(span, mutations, err)
package middleware
