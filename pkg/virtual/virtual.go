// Package virtual renders long lists by mounting only the rows that fit in
// a scroll viewport, plus a small overscan margin.
//
// All rows have the same fixed height. The scroll offset is a signal; the
// visible window is derived from it and re-rendered through a keyed For,
// so rows that stay in view keep their nodes while scrolling.
package virtual

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

// DefaultOverscan is the number of extra rows rendered above and below the
// viewport.
const DefaultOverscan = 5

// Options configures a List. Items is used when ItemsFunc is nil.
type Options[T any] struct {
	Items     []T
	ItemsFunc func() []T

	RenderItem func(item T, index int) *dom.Node

	ItemHeight      int
	ContainerHeight int

	// Overscan defaults to DefaultOverscan when zero. Use a negative value
	// for none.
	Overscan int
}

// Range is an inclusive index window. End is -1 when there are no items.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes in the window.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Visible is one row of the window.
type Visible[T any] struct {
	Item    T
	Index   int
	OffsetY int
}

// List is a virtualized list.
type List[T any] struct {
	r         *render.Renderer
	opts      Options[T]
	scrollTop *reactive.Signal[int]
}

// New creates a List rendered by r.
func New[T any](r *render.Renderer, opts Options[T]) *List[T] {
	if opts.ItemHeight <= 0 {
		opts.ItemHeight = 1
	}
	switch {
	case opts.Overscan == 0:
		opts.Overscan = DefaultOverscan
	case opts.Overscan < 0:
		opts.Overscan = 0
	}
	return &List[T]{
		r:         r,
		opts:      opts,
		scrollTop: reactive.NewSignal(r.Runtime(), 0),
	}
}

// ScrollTop is the current scroll offset in pixels.
func (l *List[T]) ScrollTop() *reactive.Signal[int] {
	return l.scrollTop
}

func (l *List[T]) items() []T {
	if l.opts.ItemsFunc != nil {
		return l.opts.ItemsFunc()
	}
	return l.opts.Items
}

// VisibleRange returns the window for the current scroll offset.
func (l *List[T]) VisibleRange() Range {
	return l.window(len(l.items()))
}

func (l *List[T]) window(n int) Range {
	top := l.scrollTop.Get()
	h := l.opts.ItemHeight
	start := max(0, top/h-l.opts.Overscan)
	end := min(n-1, int(math.Ceil(float64(top+l.opts.ContainerHeight)/float64(h)))+l.opts.Overscan)
	return Range{Start: start, End: end}
}

// VisibleItems returns the rows in the current window with their offsets.
func (l *List[T]) VisibleItems() []Visible[T] {
	items := l.items()
	rng := l.window(len(items))
	out := make([]Visible[T], 0, rng.Len())
	for i := rng.Start; i <= rng.End; i++ {
		out = append(out, Visible[T]{
			Item:    items[i],
			Index:   i,
			OffsetY: i * l.opts.ItemHeight,
		})
	}
	return out
}

// TotalHeight is the height of all rows.
func (l *List[T]) TotalHeight() int {
	return len(l.items()) * l.opts.ItemHeight
}

// HandleScroll updates the scroll offset from the event target's scrollTop
// property, falling back to the event value.
func (l *List[T]) HandleScroll(ev *dom.Event) {
	if top, ok := scrollOffset(ev); ok {
		l.scrollTop.Set(top)
	}
}

func scrollOffset(ev *dom.Event) (int, bool) {
	if ev.Target != nil {
		if v, ok := ev.Target.Property("scrollTop"); ok {
			switch x := v.(type) {
			case int:
				return x, true
			case float64:
				return int(x), true
			case string:
				if n, err := strconv.ParseFloat(x, 64); err == nil {
					return int(n), true
				}
			}
		}
	}
	if n, err := strconv.ParseFloat(ev.Value, 64); err == nil {
		return int(n), true
	}
	return 0, false
}

// Render builds the scroll container. Each visible row is wrapped in an
// absolutely positioned div keyed by index; when the item at an index
// changes, the row's content is rebuilt inside the same wrapper.
func (l *List[T]) Render() *dom.Node {
	r := l.r
	rows := render.For(r, render.ItemsFunc(l.VisibleItems),
		func(v Visible[T], _ int) *dom.Node {
			return r.El("div",
				render.Style(l.rowStyle(v.OffsetY)),
				l.opts.RenderItem(v.Item, v.Index),
			)
		},
		render.WithKey(func(v Visible[T]) any { return v.Index }),
		render.WithUpdate(func(row *dom.Node, v Visible[T], _ int) {
			for _, c := range row.ChildNodes() {
				r.Remove(c)
			}
			if n := l.opts.RenderItem(v.Item, v.Index); n != nil {
				_ = row.AppendChild(n)
			}
		}),
	)

	content := r.El("div",
		render.StyleFunc(func() string {
			return fmt.Sprintf("height: %dpx; position: relative", l.TotalHeight())
		}),
		rows,
	)
	return r.El("div",
		render.Style(fmt.Sprintf("height: %dpx; overflow-y: auto; position: relative", l.opts.ContainerHeight)),
		render.OnScroll(l.HandleScroll),
		content,
	)
}

func (l *List[T]) rowStyle(offset int) string {
	return fmt.Sprintf("position: absolute; top: %dpx; left: 0; right: 0; height: %dpx", offset, l.opts.ItemHeight)
}
