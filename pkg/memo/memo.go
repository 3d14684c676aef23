// Package memo caches the output of functions and components between calls.
//
// Memo recomputes only when an explicit dependency list changes. Component
// reuses a component's last output while its props compare equal. Neither
// subscribes to anything on its own: dependency lists are plain values,
// evaluated by the caller.
package memo

import "github.com/vango-dev/fuse/pkg/reactive"

// Memo returns a function that calls fn on first use and afterwards only
// when the list returned by deps differs from the previous one in length
// or in any element. With WithRuntime, fn runs untracked, so effects it
// creates outlive the effect run that first asked for the value.
func Memo[T any](fn func() T, deps func() []any, opts ...Option) func() T {
	cfg := newConfig(opts)
	var (
		cached      T
		cachedDeps  []any
		initialized bool
	)
	return func() T {
		current := deps()
		if !initialized || changed(cachedDeps, current) {
			cached = call(cfg, fn)
			cachedDeps = append(cachedDeps[:0], current...)
			initialized = true
		}
		return cached
	}
}

// Deps returns a fixed dependency list.
func Deps(values ...any) func() []any {
	return func() []any { return values }
}

func changed(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !same(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// same compares with ==, treating incomparable values as different.
func same(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

type config struct {
	rt *reactive.Runtime
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures Memo and Component.
type Option func(*config)

// WithRuntime runs the wrapped function untracked on rt. Effects it
// creates then belong to its output rather than to the enclosing effect
// run, so a cached result is not torn down when that run repeats.
func WithRuntime(rt *reactive.Runtime) Option {
	return func(c *config) { c.rt = rt }
}

// Component wraps c so that it only runs when props differ from the props
// of the previous call.
func Component[P comparable, R any](c func(P) R, opts ...Option) func(P) R {
	cfg := newConfig(opts)
	var (
		prev   P
		cached R
		called bool
	)
	return func(props P) R {
		if called && props == prev {
			return cached
		}
		cached = call(cfg, func() R { return c(props) })
		prev = props
		called = true
		return cached
	}
}

// call runs fn, untracked when a runtime is configured.
func call[T any](cfg config, fn func() T) T {
	if cfg.rt == nil {
		return fn()
	}
	return reactive.Untrack(cfg.rt, fn)
}
