package reactive

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// signalBase provides type-erased subscriber management.
// It is embedded in Signal[T] so subscription logic is shared by every
// value type.
type signalBase struct {
	id uint64

	// subs are the subscribed effects in subscription order.
	subs []*Effect

	// members indexes subs by effect id so re-reads are no-ops.
	members mapset.Set[EffectID]
}

func newSignalBase() signalBase {
	return signalBase{
		id:      nextID(),
		members: mapset.NewThreadUnsafeSet[EffectID](),
	}
}

// subscribe adds e to the subscribers. Returns false if it was already
// subscribed.
func (s *signalBase) subscribe(e *Effect) bool {
	if !s.members.Add(e.id) {
		return false
	}
	s.subs = append(s.subs, e)
	return true
}

// unsubscribe removes e, keeping the order of the remaining subscribers.
func (s *signalBase) unsubscribe(e *Effect) {
	if !s.members.Contains(e.id) {
		return
	}
	s.members.Remove(e.id)
	for i, existing := range s.subs {
		if existing == e {
			s.subs = slices.Delete(s.subs, i, i+1)
			return
		}
	}
}

// snapshot returns a copy of the current subscribers.
func (s *signalBase) snapshot() []*Effect {
	return slices.Clone(s.subs)
}

// Reader is the read side shared by Signal and Computed.
type Reader[T any] interface {
	Get() T
	Peek() T
}

// Signal is a reactive value container.
// Reading a Signal with Get while an effect runs subscribes that effect;
// Set re-runs every subscriber before it returns.
type Signal[T any] struct {
	base signalBase
	rt   *Runtime

	value T

	// equal, when set, lets Set skip notification for equal values.
	equal func(T, T) bool
}

// NewSignal creates a new signal bound to rt with the given initial value.
func NewSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		base:  newSignalBase(),
		rt:    rt,
		value: initial,
	}
}

// Get returns the current value and subscribes the running effect, if any.
func (s *Signal[T]) Get() T {
	s.rt.track(&s.base)
	return s.value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set assigns value and synchronously runs every subscriber.
//
// Setting a value equal to the current one still notifies, unless the
// signal was configured with WithEquals.
func (s *Signal[T]) Set(value T) {
	if s.equal != nil && s.equal(s.value, value) {
		s.value = value
		return
	}
	s.value = value
	s.rt.notify(&s.base)
}

// Update sets the signal to fn applied to the current value.
// The current value is read without tracking.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals opts the signal into change detection: Set notifies only when
// fn reports the old and new values as different.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Subscribers returns the number of effects currently subscribed.
func (s *Signal[T]) Subscribers() int {
	return len(s.base.subs)
}

// Equal is a ready-made equality function for comparable values.
func Equal[T comparable](a, b T) bool {
	return a == b
}
