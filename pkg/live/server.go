package live

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/vango-dev/fuse/client/dist"
	"github.com/vango-dev/fuse/pkg/middleware"
)

// Routes served by the live server.
const (
	ClientPath  = "/_fuse/client.js"
	SocketPath  = "/_fuse/ws"
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"
)

// ServerConfig configures the live server.
type ServerConfig struct {
	// Title is the shell page title.
	Title string

	// Session holds per-connection limits.
	Session *SessionConfig

	// MetricsPath is where metrics are served when metrics are enabled.
	MetricsPath string

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout time.Duration

	// CheckOrigin validates websocket upgrade requests.
	CheckOrigin func(r *http.Request) bool
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Title:           "fuse",
		Session:         DefaultSessionConfig(),
		MetricsPath:     MetricsPath,
		ShutdownTimeout: 5 * time.Second,
		CheckOrigin:     SameOriginCheck,
	}
}

// SameOriginCheck accepts requests without an Origin header or whose
// origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// Server serves a live application over HTTP and websockets.
type Server struct {
	app      App
	config   *ServerConfig
	upgrader websocket.Upgrader
	router   chi.Router
	logger   *slog.Logger

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	tracing  *middleware.Tracing
	handlers []mounted

	// ctx is cancelled on shutdown and parents every session.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the server configuration. Unset fields keep their
// defaults.
func WithConfig(c *ServerConfig) Option {
	return func(s *Server) {
		if c == nil {
			return
		}
		defaults := DefaultServerConfig()
		if c.Title == "" {
			c.Title = defaults.Title
		}
		if c.Session == nil {
			c.Session = defaults.Session
		}
		if c.MetricsPath == "" {
			c.MetricsPath = defaults.MetricsPath
		}
		if c.ShutdownTimeout <= 0 {
			c.ShutdownTimeout = defaults.ShutdownTimeout
		}
		if c.CheckOrigin == nil {
			c.CheckOrigin = defaults.CheckOrigin
		}
		s.config = c
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics instruments sessions and requests with m and serves g on
// the metrics path. A nil g serves the default gatherer.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing wraps requests and live events in spans.
func WithTracing(t *middleware.Tracing) Option {
	return func(s *Server) {
		s.tracing = t
	}
}

type mounted struct {
	prefix  string
	handler http.Handler
}

// WithHandler serves h under prefix, with the prefix stripped from the
// request path. Applications use it to expose a router.API next to the
// live session.
func WithHandler(prefix string, h http.Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.handlers = append(s.handlers, mounted{prefix: prefix, handler: h})
		}
	}
}

// NewServer creates a live server for app.
func NewServer(app App, opts ...Option) *Server {
	s := &Server{
		app:      app,
		config:   DefaultServerConfig(),
		logger:   slog.Default().With("component", "live"),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil && s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.tracing != nil {
		r.Use(s.tracing.Middleware)
	}

	r.Get("/", s.handleShell)
	r.Get("/*", s.handleShell)
	r.Get(ClientPath, s.handleClient)
	r.Get(SocketPath, s.handleSocket)
	r.Get(HealthPath, s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	for _, m := range s.handlers {
		r.Mount(m.prefix, http.StripPrefix(m.prefix, m.handler))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body><script src="{{.Client}}"></script></body>
</html>
`))

// handleShell serves an empty page that loads the client for every path
// not claimed by another route. The client builds the body from the init
// frame and passes the page URL to the session router.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellTemplate.Execute(w, struct {
		Title  string
		Client string
	}{s.config.Title, ClientPath}); err != nil {
		s.logger.Debug("shell write failed", "error", err)
	}
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(clientdist.FuseJS)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// handleSocket upgrades the connection and runs a session until it ends.
// The url query parameter is the page location the session starts at.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	sess := newSession(conn, s.app, r.URL.Query().Get("url"), s.config.Session, s.logger, s.metrics, s.tracing)
	s.track(sess)
	defer s.untrack(sess)

	s.logger.Info("session opened", "session_id", sess.ID, "remote", r.RemoteAddr)
	sess.Run(s.ctx)
}

func (s *Server) track(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.cancel()
		err := httpServer.Shutdown(shutdownCtx)
		if waitErr := s.wait(shutdownCtx); err == nil {
			err = waitErr
		}
		if err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}

// Close ends every session and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// wait blocks until all sessions end or ctx expires.
func (s *Server) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
