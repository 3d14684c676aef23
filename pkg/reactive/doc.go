// Package reactive provides the fine-grained reactive core for fuse.
//
// Dependencies are tracked automatically at runtime: reading a signal while
// an effect is running subscribes that effect to the signal, and setting the
// signal synchronously re-runs every subscribed effect before Set returns.
//
// # Core Types
//
// Runtime is the dependency tracker. It records which effect is currently
// running and owns the error hook and observer:
//
//	rt := reactive.NewRuntime()
//
// Signal[T] is a mutable reactive cell:
//
//	count := reactive.NewSignal(rt, 0)
//	value := count.Get() // Read (subscribes the running effect)
//	count.Set(5)         // Write (re-runs subscribers synchronously)
//
// Computed[T] is a read-only derived value kept in sync by an owned effect:
//
//	doubled := reactive.NewComputed(rt, func() int { return count.Get() * 2 })
//
// Effect re-runs whenever a signal it read during its last run changes:
//
//	e := reactive.NewEffect(rt, func() {
//	    fmt.Println("count is", count.Get())
//	    rt.OnCleanup(func() { fmt.Println("before next run") })
//	})
//	defer e.Dispose()
//
// # Threading
//
// A Runtime has exactly one current effect at a time and is not safe for
// concurrent use. Give every goroutine that renders its own Runtime, or
// serialize access to a shared one.
package reactive
