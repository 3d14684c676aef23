package demo

import (
	"fmt"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/memo"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

// BigCount is the count at which the counter shows its badge.
const BigCount = 10

// Counter is a counter with increment, decrement and reset buttons.
func Counter(r *render.Renderer) render.Child {
	rt := r.Runtime()
	count := reactive.NewSignal(rt, 0)
	doubled := reactive.NewComputed(rt, func() int { return count.Get() * 2 })

	badge := memo.Component(func(label string) render.Child {
		return render.NodeChild(r.El("span", render.Class("badge"), label))
	}, memo.WithRuntime(rt))

	step := func(delta int) dom.Listener {
		return func(*dom.Event) {
			count.Update(func(n int) int { return n + delta })
		}
	}

	return render.NodeChild(r.El("div", render.Class("counter"),
		r.El("h1", "Counter"),
		r.El("p", render.ID("count"), render.TextFunc(func() string {
			return fmt.Sprintf("Count: %d", count.Get())
		})),
		r.El("p", render.ID("doubled"), render.TextFunc(func() string {
			return fmt.Sprintf("Doubled: %d", doubled.Get())
		})),
		r.El("button", render.ID("dec"),
			render.OnClick(step(-1)),
			render.Disabled(func() bool { return count.Get() <= 0 }),
			"-"),
		r.El("button", render.ID("inc"), render.OnClick(step(1)), "+"),
		r.El("button", render.ID("reset"), render.OnClick(func(*dom.Event) { count.Set(0) }), "Reset"),
		render.Show(
			func() bool { return count.Get() >= BigCount },
			func() render.Child { return badge("big") },
		),
	))
}
