package reactive

import (
	"time"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
)

// Effect represents a reactive computation that re-runs when the signals it
// read during its last run change.
//
// Each run first invokes the cleanups registered during the previous run,
// drops the previous subscriptions, and then executes the body with the
// effect as the runtime's current effect.
type Effect struct {
	id EffectID
	rt *Runtime

	// fn is the effect body.
	fn func()

	// cleanups were registered with OnCleanup during the current run.
	cleanups []func()

	// sources are the signals read during the current run.
	sources []*signalBase

	disposed bool
	running  bool
}

// NewEffect creates an effect bound to rt and runs it once immediately.
//
// An effect created while another effect is running is owned by that run:
// it is disposed when the outer effect re-runs or is disposed.
func NewEffect(rt *Runtime, fn func()) *Effect {
	e := &Effect{
		id: EffectID(nextID()),
		rt: rt,
		fn: fn,
	}

	if outer := rt.current; outer != nil {
		outer.cleanups = append(outer.cleanups, e.Dispose)
	}

	e.run()
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() EffectID {
	return e.id
}

// Disposed reports whether Dispose has been called.
func (e *Effect) Disposed() bool {
	return e.disposed
}

// run executes the effect body with dependency tracking.
func (e *Effect) run() {
	if e.disposed {
		return
	}
	rt := e.rt
	if rt.depth >= rt.maxDepth {
		rt.report(e.id, rt.depthExceeded(e.id))
		return
	}
	rt.depth++
	defer func() { rt.depth-- }()

	e.runCleanups()
	e.unsubscribe()

	start := time.Now()
	old := rt.setCurrent(e)
	e.running = true
	e.invoke()
	e.running = false
	rt.setCurrent(old)

	if rt.observer != nil {
		rt.observer.EffectRun(e.id, time.Since(start))
	}

	// Disposed from inside its own body: the cleanups registered by the
	// run that just finished would otherwise never fire.
	if e.disposed {
		e.runCleanups()
		e.unsubscribe()
	}
}

// invoke calls the body, converting a panic into a reported error.
func (e *Effect) invoke() {
	defer func() {
		if r := recover(); r != nil {
			e.rt.report(e.id, fuseerrors.FromPanic(ErrEffectPanic.Code, r))
		}
	}()
	e.fn()
}

// runCleanups runs and clears the cleanups from the last run, in
// registration order. A panicking cleanup is reported like a panicking
// body and the remaining cleanups still run.
func (e *Effect) runCleanups() {
	cleanups := e.cleanups
	e.cleanups = nil
	for _, fn := range cleanups {
		e.cleanup(fn)
	}
}

func (e *Effect) cleanup(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.rt.report(e.id, fuseerrors.FromPanic(ErrEffectPanic.Code, r))
		}
	}()
	fn()
}

// unsubscribe removes the effect from every signal it read.
func (e *Effect) unsubscribe() {
	for _, s := range e.sources {
		s.unsubscribe(e)
	}
	e.sources = nil
}

// Dispose runs the accumulated cleanups, drops all subscriptions and
// prevents further runs. Calling it more than once is a no-op.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.running {
		// The active run finishes first; run() cleans up after it.
		return
	}
	e.runCleanups()
	e.unsubscribe()
}
