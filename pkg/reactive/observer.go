package reactive

import "time"

// Observer receives notifications about reactive activity. It is meant for
// metrics and debugging; implementations must not mutate signals.
type Observer interface {
	// SignalSet is called once per Set, before subscribers run.
	SignalSet(id uint64, subscribers int)

	// EffectRun is called after every completed effect run.
	EffectRun(id EffectID, elapsed time.Duration)

	// EffectError is called for every error routed to the error handler.
	EffectError(id EffectID, err error)
}

// ErrorHandler receives errors raised while running an effect.
type ErrorHandler func(id EffectID, err error)
