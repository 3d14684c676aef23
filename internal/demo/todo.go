package demo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/memo"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

// Todo is one entry of the todo list.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// Key identifies the todo across updates.
func (t Todo) Key() any { return t.ID }

// Filters accepted by the todo list.
const (
	FilterAll    = "all"
	FilterActive = "active"
	FilterDone   = "done"
)

func todoClass(t Todo) string {
	if t.Done {
		return "todo completed"
	}
	return "todo"
}

// TodoList is a keyed todo list. Toggling an entry updates its row in
// place instead of rebuilding it.
func TodoList(r *render.Renderer) render.Child {
	rt := r.Runtime()
	todos := reactive.NewSignal(rt, []Todo(nil))
	draft := reactive.NewSignal(rt, "")
	filter := reactive.NewSignal(rt, FilterAll).WithEquals(reactive.Equal[string])
	nextID := 0

	add := func() {
		title := strings.TrimSpace(draft.Peek())
		if title == "" {
			return
		}
		nextID++
		todos.Update(func(ts []Todo) []Todo {
			return append(slices.Clone(ts), Todo{ID: nextID, Title: title})
		})
		draft.Set("")
	}
	toggle := func(id int) {
		todos.Update(func(ts []Todo) []Todo {
			out := slices.Clone(ts)
			for i := range out {
				if out[i].ID == id {
					out[i].Done = !out[i].Done
				}
			}
			return out
		})
	}
	remove := func(id int) {
		todos.Update(func(ts []Todo) []Todo {
			return slices.DeleteFunc(slices.Clone(ts), func(t Todo) bool { return t.ID == id })
		})
	}
	clearDone := func(*dom.Event) {
		todos.Update(func(ts []Todo) []Todo {
			return slices.DeleteFunc(slices.Clone(ts), func(t Todo) bool { return t.Done })
		})
	}

	visible := func() []Todo {
		f := filter.Get()
		var out []Todo
		for _, t := range todos.Get() {
			if f == FilterAll || (f == FilterDone) == t.Done {
				out = append(out, t)
			}
		}
		return out
	}

	remaining := reactive.NewComputed(rt, func() int {
		n := 0
		for _, t := range todos.Get() {
			if !t.Done {
				n++
			}
		}
		return n
	})
	summary := memo.Memo(func() string {
		if n := remaining.Peek(); n != 1 {
			return fmt.Sprintf("%d items left", n)
		}
		return "1 item left"
	}, func() []any { return []any{remaining.Get()} })

	item := func(t Todo, _ int) *dom.Node {
		return r.El("li", render.Class(todoClass(t)),
			r.El("input", render.InputType("checkbox"),
				render.Attr("checked", t.Done),
				render.OnChange(func(*dom.Event) { toggle(t.ID) })),
			r.El("span", render.Class("title"), t.Title),
			r.El("button", render.Class("destroy"),
				render.OnClick(func(*dom.Event) { remove(t.ID) }),
				"×"),
		)
	}
	update := func(li *dom.Node, t Todo, _ int) {
		li.SetAttribute("class", todoClass(t))
		checkbox := li.FirstChild()
		checkbox.SetProperty("checked", t.Done)
		checkbox.NextSibling().SetTextContent(t.Title)
	}

	filterButton := func(name, label string) *dom.Node {
		return r.El("button",
			render.ID("filter-"+name),
			render.ClassFunc(func() string {
				if filter.Get() == name {
					return "filter selected"
				}
				return "filter"
			}),
			render.OnClick(func(*dom.Event) { filter.Set(name) }),
			label)
	}

	return render.NodeChild(r.El("section", render.Class("todoapp"),
		r.El("h1", "todos"),
		r.El("form", render.ID("new-todo-form"),
			render.OnSubmit(func(ev *dom.Event) {
				ev.PreventDefault()
				add()
			}),
			r.El("input", render.ID("new-todo"),
				render.Placeholder("What needs to be done?"),
				render.BindValue(draft.Get),
				render.OnInput(func(ev *dom.Event) { draft.Set(ev.Value) }),
				render.OnKeyDown(func(ev *dom.Event) {
					if ev.Detail == "Escape" {
						draft.Set("")
					}
				})),
		),
		r.El("ul", render.ID("todo-list"),
			render.For(r, render.ItemsFunc(visible), item, render.WithUpdate(update)),
		),
		r.El("footer",
			render.Bind("hidden", func() any { return len(todos.Get()) == 0 }),
			r.El("span", render.ID("todo-count"), render.TextFunc(summary)),
			filterButton(FilterAll, "All"),
			filterButton(FilterActive, "Active"),
			filterButton(FilterDone, "Completed"),
			r.El("button", render.ID("clear-done"), render.OnClick(clearDone), "Clear completed"),
		),
	))
}
