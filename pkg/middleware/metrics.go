package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
)

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "fuse").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "fuse",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the fuse collectors. The reactive and dom hooks are safe
// to share across sessions.
type Metrics struct {
	signalSets     prometheus.Counter
	effectRuns     prometheus.Counter
	effectDuration prometheus.Histogram
	effectErrors   *prometheus.CounterVec
	domMutations   *prometheus.CounterVec
	liveSessions   prometheus.Gauge
	framesSent     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewMetrics registers the fuse collectors. Registering twice on the same
// registry panics, as with any promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}

	return &Metrics{
		signalSets: factory.NewCounter(counter("signal_sets_total",
			"Total number of signal writes")),

		effectRuns: factory.NewCounter(counter("effect_runs_total",
			"Total number of effect executions")),

		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_duration_seconds",
			Help:        "Effect execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectErrors: factory.NewCounterVec(counter("effect_errors_total",
			"Total number of effect failures by error code"), []string{"code"}),

		domMutations: factory.NewCounterVec(counter("dom_mutations_total",
			"Total number of DOM mutations by operation"), []string{"op"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounterVec(counter("live_frames_sent_total",
			"Total number of frames sent to live clients by type"), []string{"type"}),

		httpRequests: factory.NewCounterVec(counter("http_requests_total",
			"Total number of HTTP requests by route and status code"), []string{"route", "code"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// SignalSet implements reactive.Observer.
func (m *Metrics) SignalSet(uint64, int) {
	m.signalSets.Inc()
}

// EffectRun implements reactive.Observer.
func (m *Metrics) EffectRun(_ reactive.EffectID, d time.Duration) {
	m.effectRuns.Inc()
	m.effectDuration.Observe(d.Seconds())
}

// EffectError implements reactive.Observer.
func (m *Metrics) EffectError(_ reactive.EffectID, err error) {
	m.effectErrors.WithLabelValues(errorCode(err)).Inc()
}

// errorCode returns the fuse error code of err, keeping label cardinality
// bounded.
func errorCode(err error) string {
	var fe *fuseerrors.FuseError
	if errors.As(err, &fe) && fe.Code != "" {
		return fe.Code
	}
	return "unknown"
}

// ObserveMutation counts a dom mutation. It has the dom.Observer signature.
func (m *Metrics) ObserveMutation(mu dom.Mutation) {
	m.domMutations.WithLabelValues(mu.Op.String()).Inc()
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() {
	m.liveSessions.Inc()
}

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() {
	m.liveSessions.Dec()
}

// FrameSent counts a frame written to a live client.
func (m *Metrics) FrameSent(frameType string) {
	m.framesSent.WithLabelValues(frameType).Inc()
}

// Middleware counts and times requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode(ww, r))).Inc()
	})
}

// routePattern returns the matched chi pattern, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusCode reports the written status. A hijacked websocket upgrade never
// writes one through the wrapper.
func statusCode(ww chimw.WrapResponseWriter, r *http.Request) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	if r.Header.Get("Upgrade") == "websocket" {
		return http.StatusSwitchingProtocols
	}
	return http.StatusOK
}

var _ reactive.Observer = (*Metrics)(nil)
