package reactive

import (
	"fmt"
	"log/slog"
)

// DefaultMaxDepth bounds how deeply effect runs may nest during a single
// propagation before the runtime reports ErrCycle.
const DefaultMaxDepth = 1000

// Runtime holds the dependency-tracking state for one rendering context.
// It replaces a process-wide "current effect" variable: every signal and
// effect is bound to the Runtime it was created with.
type Runtime struct {
	// current is the effect whose body is executing. Signals read while it
	// is set subscribe it, and OnCleanup appends to its cleanup list.
	// nil means no tracking.
	current *Effect

	// depth is the number of effect runs currently on the stack.
	depth    int
	maxDepth int

	onError  ErrorHandler
	observer Observer
	logger   *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithErrorHandler routes effect failures (panics, depth overflow) to h.
// Without a handler, failures are logged at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(rt *Runtime) {
		rt.onError = h
	}
}

// WithObserver installs an observer for metrics or tracing.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// WithLogger sets the logger used for unhandled effect failures.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithMaxDepth sets the nesting limit for effect runs. Values below 1
// keep the default.
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxDepth = n
		}
	}
}

// NewRuntime creates a Runtime with no current effect.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default().With("component", "reactive"),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Tracking reports whether an effect is currently running.
func (rt *Runtime) Tracking() bool {
	return rt.current != nil
}

// setCurrent sets the current effect and returns the previous one so it
// can be restored.
func (rt *Runtime) setCurrent(e *Effect) *Effect {
	old := rt.current
	rt.current = e
	return old
}

// track subscribes the current effect, if any, to the signal.
func (rt *Runtime) track(s *signalBase) {
	e := rt.current
	if e == nil {
		return
	}
	if s.subscribe(e) {
		e.sources = append(e.sources, s)
	}
}

// notify runs every subscriber of s. The subscriber list is copied first so
// effects may resubscribe, unsubscribe or dispose each other while it runs.
func (rt *Runtime) notify(s *signalBase) {
	subs := s.snapshot()
	if rt.observer != nil {
		rt.observer.SignalSet(s.id, len(subs))
	}
	for _, e := range subs {
		e.run()
	}
}

// OnCleanup registers fn to run before the current effect's next run or on
// its disposal. Outside a running effect it does nothing.
func (rt *Runtime) OnCleanup(fn func()) {
	if rt.current == nil || fn == nil {
		return
	}
	rt.current.cleanups = append(rt.current.cleanups, fn)
}

// OnMount runs fn once, immediately, without tracking its reads.
func (rt *Runtime) OnMount(fn func()) {
	rt.Untracked(fn)
}

// Untracked runs fn with no current effect. Signals read inside fn do not
// subscribe anything, and effects created inside fn are not owned by the
// caller's effect.
func (rt *Runtime) Untracked(fn func()) {
	old := rt.setCurrent(nil)
	defer rt.setCurrent(old)
	fn()
}

// Untrack is the value-returning form of Runtime.Untracked.
func Untrack[T any](rt *Runtime, fn func() T) T {
	var out T
	rt.Untracked(func() {
		out = fn()
	})
	return out
}

// report delivers an effect failure to the error handler and observer.
func (rt *Runtime) report(id EffectID, err error) {
	if rt.observer != nil {
		rt.observer.EffectError(id, err)
	}
	if rt.onError != nil {
		rt.onError(id, err)
		return
	}
	rt.logger.Error("effect failed", "effect", uint64(id), "error", err)
}

// depthExceeded builds the error reported when the nesting limit is hit.
func (rt *Runtime) depthExceeded(id EffectID) error {
	return fmt.Errorf("effect %d nested %d runs deep: %w", id, rt.depth, ErrCycle)
}
