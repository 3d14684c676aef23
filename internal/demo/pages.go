package demo

import (
	"net/http"
	"strconv"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/render"
	"github.com/vango-dev/fuse/pkg/router"
)

// Person is one entry of the people directory.
type Person struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

var people = []Person{
	{ID: 1, Name: "Ada Lovelace", Role: "analyst"},
	{ID: 2, Name: "Grace Hopper", Role: "compiler author"},
	{ID: 3, Name: "Ken Thompson", Role: "kernel hacker"},
	{ID: 4, Name: "Barbara Liskov", Role: "language designer"},
}

// PeopleAPI serves the people directory as JSON. The pages demo reads
// it in process; fuse serve also mounts it under /api.
var PeopleAPI = newPeopleAPI()

func newPeopleAPI() *router.API {
	api := router.NewAPI()
	api.Get("/people", func(_, _ router.Params) any {
		return people
	})
	api.Get("/people/:id", func(params, _ router.Params) any {
		var p struct {
			ID int `param:"id"`
		}
		if err := params.Decode(&p); err != nil {
			return nil
		}
		for _, person := range people {
			if person.ID == p.ID {
				return person
			}
		}
		return nil
	})
	return api
}

// Pages is a small routed site: a nav bar of active links, a people
// directory with a detail page per person, and a guarded admin path.
func Pages(r *render.Renderer) render.Child {
	nav := router.From(r)
	if nav == nil {
		nav = router.New(r.Runtime(), "/")
		router.Provide(r, nav)
	}
	nav.AddGuard("/admin/*", func(router.NavigationContext) router.GuardResult {
		return router.RedirectTo("/?denied=admin")
	})

	home := nav.Match("/")
	list := nav.Match("/people")
	person := nav.Match("/people/:id")
	about := nav.Match("/about")

	return render.NodeChild(r.El("div", render.Class("pages"),
		r.El("nav",
			nav.NavLink(r, "/", render.ID("nav-home"), "Home"),
			nav.NavLink(r, "/people", render.ID("nav-people"), "People"),
			nav.NavLink(r, "/about", render.ID("nav-about"), "About"),
		),
		r.El("main",
			nav.Route("/", func(router.Params) render.Child {
				return render.NodeChild(r.El("section",
					r.El("h1", "Home"),
					render.Show(
						func() bool { return nav.Params().Get()["denied"] != "" },
						func() render.Child {
							return render.NodeChild(r.El("p", render.ID("denied"), "That page is off limits."))
						},
					),
				))
			}),
			nav.Route("/people", func(router.Params) render.Child {
				return peopleList(r, nav)
			}),
			nav.Route("/people/:id", func(p router.Params) render.Child {
				return personPage(r, nav, p)
			}),
			nav.Route("/about", func(router.Params) render.Child {
				return render.NodeChild(r.El("section",
					r.El("h1", "About"),
					r.El("p", "Every page is rendered on the server; links only move the router."),
				))
			}),
			render.Show(
				func() bool {
					return home.Get() == nil && list.Get() == nil && person.Get() == nil && about.Get() == nil
				},
				func() render.Child {
					return render.NodeChild(r.El("p", render.ID("not-found"),
						render.TextFunc(func() string { return "No page at " + nav.Path().Get() })))
				},
			),
		),
	))
}

func peopleList(r *render.Renderer, nav *router.Router) render.Child {
	out, _ := PeopleAPI.Handle(http.MethodGet, "/people", nil)
	all, _ := out.([]Person)

	items := make([]any, 0, len(all))
	for _, p := range all {
		items = append(items, r.El("li",
			nav.Link(r, "/people/"+strconv.Itoa(p.ID), render.ID("person-"+strconv.Itoa(p.ID)), p.Name)))
	}
	return render.NodeChild(r.El("section",
		r.El("h1", "People"),
		r.El("ul", items...),
	))
}

func personPage(r *render.Renderer, nav *router.Router, params router.Params) render.Child {
	back := r.El("button", render.ID("back"), render.OnClick(func(*dom.Event) {
		if !nav.Back() {
			nav.Navigate("/people")
		}
	}), "Back")

	out, _ := PeopleAPI.Handle(http.MethodGet, "/people/"+params["id"], nil)
	p, ok := out.(Person)
	if !ok {
		return render.NodeChild(r.El("section",
			r.El("h1", render.ID("person"), "No such person"),
			back,
		))
	}
	return render.NodeChild(r.El("section",
		r.El("h1", render.ID("person"), p.Name),
		r.El("p", render.Class("role"), p.Role),
		back,
	))
}
