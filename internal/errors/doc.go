// Package errors provides coded, structured errors for fuse.
//
// Every error the engine reports to a caller carries a stable code
// (e.g. "E002") that maps to a registered template:
//   - a short message
//   - a longer explanation
//   - a documentation URL
//
// # Error Categories
//
//   - runtime: reactive propagation and effect failures
//   - dom: invalid tree operations on the live DOM
//   - protocol: live server wire errors
//   - config: fuse.json problems
//   - cli: command line failures
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail("effect 42 re-entered itself 1000 times").
//	    WithSuggestion("Do not set a signal the same effect reads")
//
//	fmt.Println(err.Format())
//
// Coded errors compare with errors.Is by code, so package-level sentinels
// like reactive.ErrCycle match any error created from the same code.
package errors
