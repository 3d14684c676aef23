package render

import (
	"fmt"

	"github.com/vango-dev/fuse/pkg/dom"
)

// TypeKind discriminates a Type.
type TypeKind uint8

const (
	TypeTag TypeKind = iota + 1
	TypeFragment
	TypeComponent
)

// ComponentFunc is a plain function component. It runs once per H call.
type ComponentFunc func(props Props, children ...Child) Child

// Type is what H builds: a tag, a fragment, or a component.
type Type struct {
	kind      TypeKind
	tag       string
	component ComponentFunc
}

// Tag returns the Type for an element with the given tag name.
func Tag(name string) Type {
	return Type{kind: TypeTag, tag: name}
}

// Fragment groups children without a host element.
var Fragment = Type{kind: TypeFragment}

// Component returns the Type for a function component.
func Component(fn ComponentFunc) Type {
	return Type{kind: TypeComponent, component: fn}
}

// Kind returns the discriminator.
func (t Type) Kind() TypeKind { return t.kind }

// ValueKind discriminates a Value.
type ValueKind uint8

const (
	ValueStatic ValueKind = iota + 1
	ValueReactive
	ValueHandler
)

// Value is a property value.
type Value struct {
	kind    ValueKind
	static  any
	fn      func() any
	handler dom.Listener
}

// Static is assigned once when the element is built.
func Static(v any) Value {
	return Value{kind: ValueStatic, static: v}
}

// Reactive is re-applied every time a signal read by fn changes.
func Reactive(fn func() any) Value {
	return Value{kind: ValueReactive, fn: fn}
}

// Handler is attached as an event listener.
func Handler(fn dom.Listener) Value {
	return Value{kind: ValueHandler, handler: fn}
}

// Kind returns the discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// Prop is a single keyed property.
type Prop struct {
	Key   string
	Value Value
}

// Props are applied in order.
type Props []Prop

// Get returns the last value stored under key.
func (p Props) Get(key string) (Value, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return Value{}, false
}

// String returns the static value under key formatted as a string, or "".
func (p Props) String(key string) string {
	v, ok := p.Get(key)
	if !ok || v.kind != ValueStatic || v.static == nil {
		return ""
	}
	return fmt.Sprint(v.static)
}

// ChildKind discriminates a Child. The zero Child has kind ChildNone and
// mounts nothing.
type ChildKind uint8

const (
	ChildNone ChildKind = iota
	ChildText
	ChildNode
	ChildDynamic
	ChildList
	ChildRaw
)

// Child is anything that can be mounted under a node.
type Child struct {
	kind    ChildKind
	text    string
	node    *dom.Node
	dynamic func() Child
	list    []Child
}

// Text is a text node.
func Text(s string) Child {
	return Child{kind: ChildText, text: s}
}

// Textf is a formatted text node.
func Textf(format string, args ...any) Child {
	return Text(fmt.Sprintf(format, args...))
}

// NodeChild mounts an existing node. A nil node mounts nothing.
func NodeChild(n *dom.Node) Child {
	if n == nil {
		return Child{}
	}
	return Child{kind: ChildNode, node: n}
}

// Dynamic is a block whose content is replaced each time a signal read by
// fn changes.
func Dynamic(fn func() Child) Child {
	return Child{kind: ChildDynamic, dynamic: fn}
}

// List mounts children in order. Nested lists are flattened.
func List(children ...Child) Child {
	return Child{kind: ChildList, list: children}
}

// Raw is trusted HTML parsed into nodes at mount time.
func Raw(html string) Child {
	return Child{kind: ChildRaw, text: html}
}

// Kind returns the discriminator.
func (c Child) Kind() ChildKind { return c.kind }

// Node returns the node of a ChildNode, or nil.
func (c Child) Node() *dom.Node {
	if c.kind != ChildNode {
		return nil
	}
	return c.node
}

