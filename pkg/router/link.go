package router

import (
	"strings"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/render"
)

// Route mounts the output of view while the current path matches
// pattern. The view is rebuilt when the captured parameters change and
// removed when the path stops matching.
func (r *Router) Route(pattern string, view func(Params) render.Child) render.Child {
	match := r.Match(pattern)
	return render.Dynamic(func() render.Child {
		params := match.Get()
		if params == nil {
			return render.Child{}
		}
		return view(params)
	})
}

// Link builds an anchor that navigates through the router instead of
// loading href. The data-link attribute tells the live client to leave
// the click to the server. Remaining args are passed to El.
func (r *Router) Link(rd *render.Renderer, href string, args ...any) *dom.Node {
	return rd.El("a", append(r.linkProps(href), args...)...)
}

// ActiveLink is Link with a class attribute that adds activeClass to
// class while the current path matches the path of href.
func (r *Router) ActiveLink(rd *render.Renderer, href, class, activeClass string, args ...any) *dom.Node {
	path, _, _ := strings.Cut(href, "?")
	match := r.Match(path)
	props := append(r.linkProps(href), render.ClassFunc(func() string {
		if match.Get() == nil {
			return class
		}
		return strings.TrimSpace(class + " " + activeClass)
	}))
	return rd.El("a", append(props, args...)...)
}

// NavLink is ActiveLink with the "active" class.
func (r *Router) NavLink(rd *render.Renderer, href string, args ...any) *dom.Node {
	return r.ActiveLink(rd, href, "", "active", args...)
}

func (r *Router) linkProps(href string) []any {
	return []any{
		render.Href(href),
		render.Attr("data-link", "true"),
		render.OnClick(func(ev *dom.Event) {
			ev.PreventDefault()
			if err := r.Navigate(href); err != nil {
				r.logger.Debug("link navigation refused", "href", href, "error", err)
			}
		}),
	}
}
