package render

import (
	"fmt"
	"strings"

	"github.com/vango-dev/fuse/pkg/dom"
)

// El builds an element from variadic arguments. Accepted arguments are
// Prop, Props, Child, []Child, *dom.Node, string (text) and nil; any other
// value is formatted as text.
func (r *Renderer) El(tag string, args ...any) *dom.Node {
	var props Props
	var children []Child
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Prop:
			props = append(props, v)
		case Props:
			props = append(props, v...)
		case Child:
			children = append(children, v)
		case []Child:
			children = append(children, v...)
		case *dom.Node:
			children = append(children, NodeChild(v))
		case string:
			children = append(children, Text(v))
		default:
			children = append(children, Text(fmt.Sprint(v)))
		}
	}
	return r.element(tag, props, children)
}

// P pairs a key with a Value.
func P(key string, v Value) Prop { return Prop{Key: key, Value: v} }

// Attr sets a static property or attribute.
func Attr(key string, v any) Prop { return P(key, Static(v)) }

// Bind re-applies key whenever a signal read by fn changes.
func Bind(key string, fn func() any) Prop { return P(key, Reactive(fn)) }

// ID sets the id attribute.
func ID(id string) Prop { return Attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Prop { return Attr("class", strings.Join(classes, " ")) }

// ClassFunc binds the class attribute.
func ClassFunc(fn func() string) Prop {
	return Bind("class", func() any { return fn() })
}

// Style sets the style attribute.
func Style(style string) Prop { return Attr("style", style) }

// StyleFunc binds the style attribute.
func StyleFunc(fn func() string) Prop {
	return Bind("style", func() any { return fn() })
}

// InputType sets the type attribute.
func InputType(t string) Prop { return Attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(s string) Prop { return Attr("placeholder", s) }

// Href sets the href attribute.
func Href(url string) Prop { return Attr("href", url) }

// BindValue binds the value property of a form control.
func BindValue(fn func() string) Prop {
	return Bind("value", func() any { return fn() })
}

// BindChecked binds the checked property of a checkbox.
func BindChecked(fn func() bool) Prop {
	return Bind("checked", func() any { return fn() })
}

// Disabled binds the disabled attribute.
func Disabled(fn func() bool) Prop {
	return Bind("disabled", func() any { return fn() })
}

// On attaches fn to the named event.
func On(event string, fn dom.Listener) Prop { return P("on"+event, Handler(fn)) }

// OnClick handles click events.
func OnClick(fn dom.Listener) Prop { return On("click", fn) }

// OnInput handles input events.
func OnInput(fn dom.Listener) Prop { return On("input", fn) }

// OnChange handles change events.
func OnChange(fn dom.Listener) Prop { return On("change", fn) }

// OnSubmit handles submit events.
func OnSubmit(fn dom.Listener) Prop { return On("submit", fn) }

// OnKeyDown handles keydown events.
func OnKeyDown(fn dom.Listener) Prop { return On("keydown", fn) }

// OnScroll handles scroll events.
func OnScroll(fn dom.Listener) Prop { return On("scroll", fn) }

// TextFunc is a dynamic text node.
func TextFunc(fn func() string) Child {
	return Dynamic(func() Child { return Text(fn()) })
}

// Show mounts the output of then while when reports true.
func Show(when func() bool, then func() Child) Child {
	return Dynamic(func() Child {
		if when() {
			return then()
		}
		return Child{}
	})
}
