package fusetest

import (
	"strings"
	"testing"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

// Harness is a mounted component with its runtime and document.
type Harness struct {
	RT        *reactive.Runtime
	Doc       *dom.Document
	R         *render.Renderer
	Container *dom.Node

	mutations []dom.Mutation
	errors    []error
	stop      func()
}

// Option configures a Harness.
type Option func(*config)

type config struct {
	maxDepth int
}

// WithMaxDepth sets the runtime's effect nesting limit.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// New creates an empty harness with a connected container element.
func New(opts ...Option) *Harness {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	h := &Harness{}
	h.RT = reactive.NewRuntime(
		reactive.WithMaxDepth(c.maxDepth),
		reactive.WithErrorHandler(func(_ reactive.EffectID, err error) {
			h.errors = append(h.errors, err)
		}),
	)
	h.Doc = dom.NewDocument()
	h.R = render.New(h.Doc, h.RT)
	h.Container = h.Doc.CreateElement("div")
	h.Doc.Body().AppendChild(h.Container)
	h.stop = h.Doc.Observe(func(m dom.Mutation) {
		h.mutations = append(h.mutations, m)
	})
	return h
}

// Mount creates a harness and renders the output of component into its
// container. The tree is disposed when the test ends.
func Mount(t testing.TB, component func(r *render.Renderer) render.Child, opts ...Option) *Harness {
	t.Helper()
	h := New(opts...)
	if err := h.R.Render(component(h.R), h.Container); err != nil {
		t.Fatalf("render: %v", err)
	}
	h.Reset()
	t.Cleanup(h.Close)
	return h
}

// Close disposes the mounted tree and stops recording.
func (h *Harness) Close() {
	h.R.Dispose(h.Container)
	if h.stop != nil {
		h.stop()
		h.stop = nil
	}
}

// Reset forgets recorded mutations.
func (h *Harness) Reset() {
	h.mutations = nil
}

// Mutations returns the connected mutations recorded since the last Reset.
func (h *Harness) Mutations() []dom.Mutation {
	var out []dom.Mutation
	for _, m := range h.mutations {
		if m.Connected {
			out = append(out, m)
		}
	}
	return out
}

// Ops returns the connected mutations as strings, for compact assertions.
func (h *Harness) Ops() []string {
	var out []string
	for _, m := range h.Mutations() {
		out = append(out, m.String())
	}
	return out
}

// Errors returns the effect errors reported so far.
func (h *Harness) Errors() []error {
	return h.errors
}

// HTML returns the container's inner HTML.
func (h *Harness) HTML() string {
	return dom.InnerHTML(h.Container)
}

// FindByID returns the first element in the container with the given id
// attribute, or nil.
func (h *Harness) FindByID(id string) *dom.Node {
	return find(h.Container, func(n *dom.Node) bool {
		v, ok := n.GetAttribute("id")
		return ok && v == id
	})
}

// Find returns the first element with the given tag, or nil.
func (h *Harness) Find(tag string) *dom.Node {
	return find(h.Container, func(n *dom.Node) bool { return n.Tag() == tag })
}

// FindAll returns every element with the given tag in document order.
func (h *Harness) FindAll(tag string) []*dom.Node {
	var out []*dom.Node
	walk(h.Container, func(n *dom.Node) bool {
		if n.Tag() == tag {
			out = append(out, n)
		}
		return false
	})
	return out
}

func find(root *dom.Node, match func(*dom.Node) bool) *dom.Node {
	var found *dom.Node
	walk(root, func(n *dom.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}

// walk visits element descendants of root until visit returns true.
func walk(root *dom.Node, visit func(*dom.Node) bool) bool {
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != dom.ElementNode {
			continue
		}
		if visit(c) || walk(c, visit) {
			return true
		}
	}
	return false
}

// Dispatch fires an event of type typ at n and returns it.
func (h *Harness) Dispatch(n *dom.Node, typ string) *dom.Event {
	ev := dom.NewEvent(typ)
	n.DispatchEvent(ev)
	return ev
}

// Click fires a click event at n.
func (h *Harness) Click(n *dom.Node) {
	h.Dispatch(n, "click")
}

// Input sets the value property of n and fires an input event carrying
// the value, as a browser would after typing.
func (h *Harness) Input(n *dom.Node, value string) {
	n.SetProperty("value", value)
	ev := dom.NewEvent("input")
	ev.Value = value
	n.DispatchEvent(ev)
}

// KeyDown fires a keydown event with key as its detail.
func (h *Harness) KeyDown(n *dom.Node, key string) {
	ev := dom.NewEvent("keydown")
	if v, ok := n.Property("value"); ok {
		ev.Value, _ = v.(string)
	}
	ev.Detail = key
	n.DispatchEvent(ev)
}

// Submit fires a submit event at n.
func (h *Harness) Submit(n *dom.Node) {
	h.Dispatch(n, "submit")
}

// RenderToString returns the outer HTML of n.
func RenderToString(n *dom.Node) string {
	if n == nil {
		return ""
	}
	return dom.OuterHTML(n)
}

// ExpectContains asserts that the rendered node contains expected.
func ExpectContains(t testing.TB, n *dom.Node, expected string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered node does not contain
// unexpected.
func ExpectNotContains(t testing.TB, n *dom.Node, unexpected string) {
	t.Helper()
	html := RenderToString(n)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the rendered node contains a tag.
func ExpectElement(t testing.TB, n *dom.Node, tag string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the rendered node contains attr="value".
func ExpectAttribute(t testing.TB, n *dom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(n)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
