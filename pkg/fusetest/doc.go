// Package fusetest provides testing helpers for fuse components.
//
// A Harness owns a fresh Runtime, Document and Renderer, mounts a
// component into a container and records every mutation the container's
// document reports. Helpers simulate user events and assert on the
// rendered HTML.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := fusetest.Mount(t, Counter)
//	    fusetest.ExpectContains(t, h.Container, "Count: 0")
//
//	    h.Click(h.FindByID("inc"))
//	    fusetest.ExpectContains(t, h.Container, "Count: 1")
//	}
//
// # Mutation Recording
//
// Assert on the exact tree changes an update produced:
//
//	h.Reset()
//	h.Click(h.FindByID("inc"))
//	if got := h.Ops(); len(got) != 2 {
//	    t.Errorf("ops = %v", got)
//	}
//
// # Effect Errors
//
// Panics and depth overflows inside effects are collected instead of
// logged, so tests can assert on them:
//
//	if errs := h.Errors(); len(errs) != 0 {
//	    t.Fatalf("effect errors: %v", errs)
//	}
package fusetest
