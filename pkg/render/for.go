package render

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/fuse/pkg/dom"
)

// Keyed items supply their own list identity.
type Keyed interface {
	Key() any
}

// Each is the sequence a For iterates: fixed, or re-evaluated reactively.
type Each[T any] struct {
	items []T
	fn    func() []T
}

// Items is a fixed sequence, rendered once.
func Items[T any](items []T) Each[T] {
	return Each[T]{items: items}
}

// ItemsFunc is a sequence re-evaluated whenever a signal read by fn changes.
func ItemsFunc[T any](fn func() []T) Each[T] {
	return Each[T]{fn: fn}
}

type forConfig[T any] struct {
	key    func(T) any
	update func(node *dom.Node, item T, index int)
}

// ForOption configures For.
type ForOption[T any] func(*forConfig[T])

// WithKey sets the function used to identify items.
func WithKey[T any](fn func(T) any) ForOption[T] {
	return func(c *forConfig[T]) { c.key = fn }
}

// WithUpdate is called when an existing key arrives with a different item.
// The node is kept either way.
func WithUpdate[T any](fn func(node *dom.Node, item T, index int)) ForOption[T] {
	return func(c *forConfig[T]) { c.update = fn }
}

// For renders a list of items.
//
// A fixed sequence renders every item once. A reactive sequence keeps one
// node per key: new keys are rendered, vanished keys are removed with their
// bindings, and surviving nodes are moved only when their predecessor is
// not the expected one. Items are placed directly after an empty text
// anchor. If the anchor is not attached yet, placement happens as soon as
// it is.
//
// An item's key is, in order: the WithKey function, Key() when the item
// implements Keyed, the exported Key field of a struct item, the item
// itself when it is comparable, or a hash of its Go-syntax representation. When a key repeats, the first item wins.
func For[T any](r *Renderer, each Each[T], renderItem func(item T, index int) *dom.Node, opts ...ForOption[T]) Child {
	var cfg forConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	if each.fn == nil {
		children := make([]Child, 0, len(each.items))
		for i, item := range each.items {
			children = append(children, NodeChild(renderItem(item, i)))
		}
		return List(children...)
	}

	l := &keyedList[T]{
		r:       r,
		each:    each.fn,
		render:  renderItem,
		cfg:     cfg,
		anchor:  r.doc.CreateTextNode(""),
		entries: make(map[any]*listEntry[T]),
	}
	r.effect(l.anchor, l.run)
	r.bind(l.anchor, l.clear)
	return NodeChild(l.anchor)
}

type listEntry[T any] struct {
	key  any
	node *dom.Node
	item T
}

type keyedList[T any] struct {
	r      *Renderer
	each   func() []T
	render func(T, int) *dom.Node
	cfg    forConfig[T]
	anchor *dom.Node

	entries map[any]*listEntry[T]
	order   []*listEntry[T]
	waiting bool
}

func (l *keyedList[T]) run() {
	items := l.each()

	type slot struct {
		key   any
		item  T
		index int
	}
	slots := make([]slot, 0, len(items))
	seen := make(map[any]bool, len(items))
	for i, item := range items {
		k := l.key(item)
		if seen[k] {
			l.r.logger.Warn("duplicate key in list", "key", k, "index", i)
			continue
		}
		seen[k] = true
		slots = append(slots, slot{key: k, item: item, index: i})
	}

	for _, ent := range l.order {
		if !seen[ent.key] {
			l.r.Remove(ent.node)
			delete(l.entries, ent.key)
		}
	}

	order := make([]*listEntry[T], 0, len(slots))
	for _, s := range slots {
		ent, ok := l.entries[s.key]
		switch {
		case !ok:
			var node *dom.Node
			l.r.rt.Untracked(func() { node = l.render(s.item, s.index) })
			if node == nil {
				node = l.r.doc.CreateTextNode("")
			}
			ent = &listEntry[T]{key: s.key, node: node, item: s.item}
			l.entries[s.key] = ent
		case !sameItem(ent.item, s.item):
			ent.item = s.item
			if l.cfg.update != nil {
				l.r.rt.Untracked(func() { l.cfg.update(ent.node, s.item, s.index) })
			}
		}
		order = append(order, ent)
	}
	l.order = order
	l.place()
}

// place positions the entries after the anchor in order.
func (l *keyedList[T]) place() {
	parent := l.anchor.Parent()
	if parent == nil {
		if !l.waiting {
			l.waiting = true
			l.anchor.OnAttach(func() {
				l.waiting = false
				l.place()
			})
		}
		return
	}
	prev := l.anchor
	for _, ent := range l.order {
		if ent.node.PreviousSibling() != prev {
			l.r.insert(parent, ent.node, prev.NextSibling())
		}
		prev = ent.node
	}
}

func (l *keyedList[T]) clear() {
	for _, ent := range l.order {
		l.r.Remove(ent.node)
	}
	l.order = nil
	l.entries = make(map[any]*listEntry[T])
}

func (l *keyedList[T]) key(item T) any {
	if l.cfg.key != nil {
		return l.cfg.key(item)
	}
	v := any(item)
	if k, ok := v.(Keyed); ok {
		return k.Key()
	}
	if k, ok := keyField(v); ok {
		if hashable(k) {
			return k
		}
		v = k
	}
	if v == nil || hashable(v) {
		return v
	}
	return xxhash.Sum64String(fmt.Sprintf("%#v", v))
}

// keyField returns the exported Key field of a struct or struct pointer.
func keyField(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	f, ok := rv.Type().FieldByName("Key")
	if !ok || !f.IsExported() {
		return nil, false
	}
	return rv.FieldByIndex(f.Index).Interface(), true
}

// hashable reports whether v can be used as a map key.
func hashable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

// sameItem compares with ==, treating incomparable values as different.
func sameItem(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
