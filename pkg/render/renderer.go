package render

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
)

// Renderer builds dom nodes and keeps the binding records that tie
// listeners and effects to them.
type Renderer struct {
	doc    *dom.Document
	rt     *reactive.Runtime
	logger *slog.Logger

	// bindings holds the disposers registered against each node.
	bindings map[*dom.Node][]func()

	// values holds context values provided on this renderer.
	values map[any]any
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for dom errors and list warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Renderer that builds nodes in doc and binds them through rt.
func New(doc *dom.Document, rt *reactive.Runtime, opts ...Option) *Renderer {
	r := &Renderer{
		doc:      doc,
		rt:       rt,
		logger:   slog.Default().With("component", "render"),
		bindings: make(map[*dom.Node][]func()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the document nodes are created in.
func (r *Renderer) Document() *dom.Document { return r.doc }

// Runtime returns the reactive runtime bindings run on.
func (r *Renderer) Runtime() *reactive.Runtime { return r.rt }

// H builds t with props and children.
//
// A component is called with props and children and its result returned
// as is. A fragment mounts the children into a detached fragment node; they
// move into the parent when the fragment is mounted. A tag creates an
// element, applies props in order and mounts the children.
func (r *Renderer) H(t Type, props Props, children ...Child) Child {
	switch t.kind {
	case TypeComponent:
		if t.component == nil {
			return Child{}
		}
		return t.component(props, children...)
	case TypeFragment:
		frag := r.doc.CreateFragment()
		for _, c := range children {
			r.mountChild(frag, c, nil)
		}
		return NodeChild(frag)
	case TypeTag:
		return NodeChild(r.element(t.tag, props, children))
	default:
		return Child{}
	}
}

func (r *Renderer) element(tag string, props Props, children []Child) *dom.Node {
	el := r.createElement(tag)
	for _, p := range props {
		r.applyProp(el, p.Key, p.Value)
	}
	for _, c := range children {
		r.mountChild(el, c, nil)
	}
	return el
}

// Render replaces the children of container with c, disposing the
// bindings of everything it removes.
func (r *Renderer) Render(c Child, container *dom.Node) error {
	if container == nil {
		return ErrNilContainer
	}
	for _, old := range container.ChildNodes() {
		r.Dispose(old)
	}
	frag := r.doc.CreateFragment()
	r.mountChild(frag, c, nil)
	return container.ReplaceChildren(frag)
}

// mountChild inserts c into parent before the reference node (nil appends)
// and returns the top-level nodes it inserted.
func (r *Renderer) mountChild(parent *dom.Node, c Child, before *dom.Node) []*dom.Node {
	return r.mount(parent, c, before, nil)
}

// mount is mountChild for a dynamic block. frags, when not nil, holds the
// nodes each fragment contributed on the block's previous run; an emptied
// fragment that comes back re-inserts them, and the fragments mounted now
// are recorded in it.
func (r *Renderer) mount(parent *dom.Node, c Child, before *dom.Node, frags map[*dom.Node][]*dom.Node) []*dom.Node {
	switch c.kind {
	case ChildNone:
		return nil

	case ChildText:
		n := r.doc.CreateTextNode(c.text)
		r.insert(parent, n, before)
		return []*dom.Node{n}

	case ChildNode:
		if c.node.Type() != dom.FragmentNode {
			r.insert(parent, c.node, before)
			return []*dom.Node{c.node}
		}
		nodes := c.node.ChildNodes()
		if len(nodes) == 0 && frags != nil {
			nodes = frags[c.node]
			for _, n := range nodes {
				r.insert(parent, n, before)
			}
		} else {
			r.insert(parent, c.node, before)
		}
		if frags != nil {
			frags[c.node] = nodes
		}
		return nodes

	case ChildList:
		var out []*dom.Node
		for _, x := range c.list {
			out = append(out, r.mount(parent, x, before, frags)...)
		}
		return out

	case ChildRaw:
		nodes, err := r.doc.ParseHTML(strings.NewReader(c.text))
		if err != nil {
			r.logger.Error("parse raw html", "error", err)
			return nil
		}
		for _, n := range nodes {
			r.insert(parent, n, before)
		}
		return nodes

	case ChildDynamic:
		return []*dom.Node{r.mountDynamic(parent, c.dynamic, before)}
	}
	return nil
}

// mountDynamic inserts an empty text anchor and an effect that replaces the
// nodes in front of the anchor with the latest output of fn on every run.
// Nodes that reappear in the new output are moved, not disposed.
func (r *Renderer) mountDynamic(parent *dom.Node, fn func() Child, before *dom.Node) *dom.Node {
	anchor := r.doc.CreateTextNode("")
	r.insert(parent, anchor, before)

	var current []*dom.Node
	// frags maps each fragment in the last output to the nodes it
	// contributed; a mounted fragment is empty afterwards.
	var frags map[*dom.Node][]*dom.Node
	drop := func(keep map[*dom.Node]bool) {
		for _, n := range current {
			if keep[n] {
				n.Remove()
				continue
			}
			r.Remove(n)
		}
		current = nil
	}

	r.effect(anchor, func() {
		out := fn()
		keep := make(map[*dom.Node]bool)
		collect(out, keep, frags)
		drop(keep)
		next := make(map[*dom.Node][]*dom.Node)
		if p := anchor.Parent(); p != nil {
			current = r.mount(p, out, anchor, next)
		}
		frags = next
	})
	r.bind(anchor, func() { drop(nil) })
	return anchor
}

// collect marks the nodes c references directly, through lists. A fragment
// marks the nodes it holds or, once a mount has emptied it, the nodes it
// contributed then.
func collect(c Child, keep map[*dom.Node]bool, frags map[*dom.Node][]*dom.Node) {
	switch c.kind {
	case ChildNode:
		keep[c.node] = true
		if c.node.Type() != dom.FragmentNode {
			return
		}
		nodes := c.node.ChildNodes()
		if len(nodes) == 0 {
			nodes = frags[c.node]
		}
		for _, n := range nodes {
			keep[n] = true
		}
	case ChildList:
		for _, x := range c.list {
			collect(x, keep, frags)
		}
	}
}

// effect creates an effect owned by n rather than by the effect that is
// running, if any. It is disposed with n, so a node that a dynamic block
// returns again on a later run keeps its bindings.
func (r *Renderer) effect(n *dom.Node, fn func()) *reactive.Effect {
	var e *reactive.Effect
	r.rt.Untracked(func() { e = reactive.NewEffect(r.rt, fn) })
	r.bind(n, e.Dispose)
	return e
}

func (r *Renderer) insert(parent, n, before *dom.Node) {
	if err := parent.InsertBefore(n, before); err != nil {
		r.logger.Error("insert node",
			"parent", parent.ID(),
			"node", n.ID(),
			"error", err)
	}
}

// bind records fn to run when n is disposed.
func (r *Renderer) bind(n *dom.Node, fn func()) {
	r.bindings[n] = append(r.bindings[n], fn)
}

// Dispose runs the disposers of n and all its descendants, children first.
// The node stays in the tree.
func (r *Renderer) Dispose(n *dom.Node) {
	if n == nil {
		return
	}
	for _, c := range n.ChildNodes() {
		r.Dispose(c)
	}
	fns, ok := r.bindings[n]
	if !ok {
		return
	}
	delete(r.bindings, n)
	for _, fn := range fns {
		fn()
	}
}

// Remove disposes n's subtree and detaches it.
func (r *Renderer) Remove(n *dom.Node) {
	if n == nil {
		return
	}
	r.Dispose(n)
	n.Remove()
}

// Bindings returns the number of disposers registered on n itself.
func (r *Renderer) Bindings(n *dom.Node) int {
	return len(r.bindings[n])
}

// BoundNodes returns the number of nodes that currently hold disposers.
func (r *Renderer) BoundNodes() int {
	return len(r.bindings)
}
