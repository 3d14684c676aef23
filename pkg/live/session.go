package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	fuseerrors "github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/middleware"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
	"github.com/vango-dev/fuse/pkg/router"
	"go.opentelemetry.io/otel/trace"
)

// App builds the root of a live application. It is called once per
// session with that session's renderer; router.From returns the session
// router.
type App func(r *render.Renderer) render.Child

// Session is one websocket connection with its own reactive runtime,
// document and renderer. Only the session loop touches those three.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn   *websocket.Conn
	mu     sync.Mutex // Protects conn writes
	closed atomic.Bool

	rt       *reactive.Runtime
	doc      *dom.Document
	renderer *render.Renderer
	nav      *router.Router

	// pending holds connected mutations recorded since the last flush.
	pending []Op

	// navigations holds router navigations not yet sent to the client.
	navigations []router.Navigation

	// syncing suppresses recording while client-reported state is
	// written back into the document.
	syncing bool

	frames   chan *ClientFrame
	done     chan struct{}
	stopOnce sync.Once

	config  *SessionConfig
	logger  *slog.Logger
	metrics *middleware.Metrics
	tracing *middleware.Tracing

	eventCount atomic.Uint64
	patchCount atomic.Uint64
}

// SessionConfig holds per-connection limits.
type SessionConfig struct {
	// ReadLimit is the maximum client frame size in bytes.
	ReadLimit int64

	// PingInterval is how often the server pings the client. The read
	// deadline is twice this value.
	PingInterval time.Duration

	// WriteTimeout bounds each write.
	WriteTimeout time.Duration

	// MaxDepth is passed to the session runtime.
	MaxDepth int

	// MaxEventQueue is the buffered frame count between reader and loop.
	MaxEventQueue int
}

// DefaultSessionConfig returns the limits used when none are configured.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadLimit:     64 << 10,
		PingInterval:  30 * time.Second,
		WriteTimeout:  10 * time.Second,
		MaxDepth:      reactive.DefaultMaxDepth,
		MaxEventQueue: 256,
	}
}

// newSession creates a session and mounts app into its document body.
// url is the browser location the session router starts at.
func newSession(conn *websocket.Conn, app App, url string, config *SessionConfig, logger *slog.Logger,
	metrics *middleware.Metrics, tracing *middleware.Tracing) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		frames:    make(chan *ClientFrame, config.MaxEventQueue),
		done:      make(chan struct{}),
		config:    config,
		logger:    logger.With("session_id", id),
		metrics:   metrics,
		tracing:   tracing,
	}

	opts := []reactive.Option{
		reactive.WithLogger(s.logger),
		reactive.WithMaxDepth(config.MaxDepth),
		reactive.WithErrorHandler(s.effectFailed),
	}
	if metrics != nil {
		opts = append(opts, reactive.WithObserver(metrics))
	}
	s.rt = reactive.NewRuntime(opts...)
	s.doc = dom.NewDocument()
	s.renderer = render.New(s.doc, s.rt, render.WithLogger(s.logger))
	s.nav = router.New(s.rt, url,
		router.WithLogger(s.logger),
		router.WithNavigateHook(func(n router.Navigation) {
			s.navigations = append(s.navigations, n)
		}))
	router.Provide(s.renderer, s.nav)
	if canonical, err := router.Canonicalize(url); url != "" && (err != nil || canonical != url) {
		s.navigations = append(s.navigations, router.Navigation{URL: s.nav.URL(), Replace: true})
	}
	s.doc.Observe(s.record)

	if err := s.renderer.Render(app(s.renderer), s.doc.Body()); err != nil {
		s.logger.Error("mount failed", "error", err)
	}
	s.pending = nil
	return s
}

// Document returns the session document. It must only be used from the
// session loop or after the session has stopped.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// Router returns the session router. Like Document it belongs to the
// session loop.
func (s *Session) Router() *router.Router {
	return s.nav
}

// record is the document observer.
func (s *Session) record(m dom.Mutation) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(m)
	}
	if !m.Connected || s.syncing {
		return
	}
	s.pending = append(s.pending, EncodeMutation(m))
}

// effectFailed reports an effect error to the log and the client.
func (s *Session) effectFailed(id reactive.EffectID, err error) {
	s.logger.Error("effect failed", "effect", uint64(id), "error", err)
	s.send(errorFrame(err))
}

// Run sends the initial tree and serves the connection until the client
// disconnects or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer s.Close()

	if s.metrics != nil {
		s.metrics.SessionOpened()
		defer s.metrics.SessionClosed()
	}
	if err := s.send(ServerFrame{T: FrameInit, Tree: Snapshot(s.doc.Body())}); err != nil {
		return
	}
	s.flushNavigations()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		s.readLoop()
	}()

	s.eventLoop(ctx)

	// Unblock the reader and wait for it.
	s.Close()
	<-readerDone
}

// readLoop decodes frames and hands them to the session loop.
func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.config.ReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(2 * s.config.PingInterval))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(2 * s.config.PingInterval))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) && !s.closed.Load() {
				s.logger.Error("read error", "error", err)
			}
			s.stop()
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(2 * s.config.PingInterval))

		frame, err := DecodeClientFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			s.send(errorFrame(err))
			continue
		}

		select {
		case s.frames <- frame:
		case <-s.done:
			return
		default:
			s.logger.Warn("event queue full, dropping event", "target", frame.ID)
		}
	}
}

// eventLoop is the single owner of the runtime and document.
func (s *Session) eventLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-s.frames:
			s.handleFrame(ctx, frame)

		case <-ticker.C:
			if err := s.ping(); err != nil {
				return
			}

		case <-ctx.Done():
			return

		case <-s.done:
			return
		}
	}
}

// handleFrame applies an event or a browser navigation and flushes the
// resulting mutations as one patch frame, followed by any router
// navigations it caused.
func (s *Session) handleFrame(ctx context.Context, f *ClientFrame) {
	s.eventCount.Add(1)

	typ := f.Type
	if f.T == FrameNavigate {
		typ = FrameNavigate
	}
	var span trace.Span
	if s.tracing != nil {
		_, span = s.tracing.StartEventSpan(ctx, typ, f.ID)
	}

	var err error
	if f.T == FrameNavigate {
		err = s.nav.Sync(f.URL)
	} else {
		err = s.dispatch(f)
	}
	n := len(s.pending)
	s.flush()
	s.flushNavigations()

	if span != nil {
		middleware.EndEventSpan(span, n, err)
	}
	if err != nil {
		s.logger.Debug("frame failed", "target", f.ID, "type", typ, "error", err)
		s.send(errorFrame(err))
	}
}

// dispatch runs the event against the document, converting handler panics
// into errors.
func (s *Session) dispatch(f *ClientFrame) (err error) {
	target := s.doc.NodeByID(f.ID)
	if target == nil {
		return fuseerrors.New("E061").WithDetail(fmt.Sprintf("node %d is not connected", f.ID))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()

	s.sync(target, f)

	ev := dom.NewEvent(f.Type)
	if f.Value != nil {
		ev.Value = *f.Value
	}
	if f.Key != "" {
		ev.Detail = f.Key
	}
	target.DispatchEvent(ev)
	return nil
}

// sync writes the state the browser already shows back into the document
// without echoing it to the client.
func (s *Session) sync(target *dom.Node, f *ClientFrame) {
	s.syncing = true
	defer func() { s.syncing = false }()

	if f.Value != nil {
		target.SetProperty("value", *f.Value)
	}
	if f.Checked != nil {
		target.SetProperty("checked", *f.Checked)
	}
	if f.ScrollTop != nil {
		target.SetProperty("scrollTop", *f.ScrollTop)
	}
}

// flush sends pending mutations as a patch frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	ops := s.pending
	s.pending = nil
	s.patchCount.Add(uint64(len(ops)))
	s.send(ServerFrame{T: FramePatch, Ops: ops})
}

// flushNavigations sends pending router navigations in order.
func (s *Session) flushNavigations() {
	navs := s.navigations
	s.navigations = nil
	for _, n := range navs {
		s.send(navigateFrame(n))
	}
}

// send writes a frame to the client.
func (s *Session) send(f ServerFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		s.logger.Error("frame encode error", "type", f.T, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("write error", "type", f.T, "error", err)
		return err
	}
	if s.metrics != nil {
		s.metrics.FrameSent(f.T)
	}
	return nil
}

// ping sends a websocket ping control frame.
func (s *Session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
}

// stop signals the session loop to exit.
func (s *Session) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Close sends a close frame and releases the connection. Calling it more
// than once is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed.Swap(true) {
		s.mu.Unlock()
		return
	}
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()
	s.mu.Unlock()

	s.stop()

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"mutations", s.patchCount.Load())
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that is closed when the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
