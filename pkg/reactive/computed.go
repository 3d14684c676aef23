package reactive

// Computed is a read-only signal whose value is derived by an owned effect.
//
// Computed values are eager: the derivation re-runs synchronously whenever
// one of its inputs is set, not on the next read. Reading a Computed inside
// another effect subscribes that effect to the computed value itself, not
// to the derivation's inputs.
type Computed[T any] struct {
	sig    *Signal[T]
	effect *Effect
}

// NewComputed creates a computed value from fn and evaluates it once.
func NewComputed[T any](rt *Runtime, fn func() T) *Computed[T] {
	var zero T
	c := &Computed[T]{
		sig: NewSignal(rt, zero),
	}
	c.effect = NewEffect(rt, func() {
		c.sig.Set(fn())
	})
	return c
}

// Get returns the derived value and subscribes the running effect.
func (c *Computed[T]) Get() T {
	return c.sig.Get()
}

// Peek returns the derived value without subscribing.
func (c *Computed[T]) Peek() T {
	return c.sig.Peek()
}

// WithEquals makes the computed value notify its readers only when fn
// reports the newly derived value as different from the last one.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.sig.WithEquals(fn)
	return c
}

// ID returns the identifier of the backing signal.
func (c *Computed[T]) ID() uint64 {
	return c.sig.ID()
}

// Dispose stops recomputation. The last value stays readable.
func (c *Computed[T]) Dispose() {
	c.effect.Dispose()
}

var (
	_ Reader[int] = (*Signal[int])(nil)
	_ Reader[int] = (*Computed[int])(nil)
)
