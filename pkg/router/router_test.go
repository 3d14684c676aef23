package router

import (
	"errors"
	"slices"
	"testing"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

func newTestRouter(t *testing.T, initial string, opts ...Option) (*Router, *reactive.Runtime) {
	t.Helper()
	rt := reactive.NewRuntime()
	nav := New(rt, initial, opts...)
	t.Cleanup(nav.Dispose)
	return nav, rt
}

// recordNavigations returns an option that appends every navigation to
// the returned slice.
func recordNavigations() (Option, *[]Navigation) {
	var navs []Navigation
	return WithNavigateHook(func(n Navigation) { navs = append(navs, n) }), &navs
}

func TestNewCanonicalizesInitialURL(t *testing.T) {
	nav, _ := newTestRouter(t, "/users/?tab=1")
	if nav.URL() != "/users?tab=1" {
		t.Errorf("URL() = %q, want /users?tab=1", nav.URL())
	}

	bad, _ := newTestRouter(t, "https://example.com/")
	if bad.URL() != "/" {
		t.Errorf("URL() = %q, want /", bad.URL())
	}
}

func TestNavigateUpdatesPathAndQuery(t *testing.T) {
	hook, navs := recordNavigations()
	nav, rt := newTestRouter(t, "/", hook)

	var paths []string
	reactive.NewEffect(rt, func() {
		paths = append(paths, nav.Path().Get())
	})

	if err := nav.Navigate("/a"); err != nil {
		t.Fatal(err)
	}
	if err := nav.Navigate("/a?x=1"); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(paths, []string{"/", "/a"}) {
		t.Errorf("paths = %v, a query change must not re-run path readers", paths)
	}
	if nav.Query().Peek() != "x=1" {
		t.Errorf("Query() = %q", nav.Query().Peek())
	}
	if len(*navs) != 2 || (*navs)[1].URL != "/a?x=1" || (*navs)[1].Replace {
		t.Errorf("navigations = %+v", *navs)
	}
}

func TestParamsMergeQuery(t *testing.T) {
	nav, _ := newTestRouter(t, "/")
	nav.RegisterPattern("/users/:id")

	if err := nav.Navigate("/users/7?tab=posts&id=9"); err != nil {
		t.Fatal(err)
	}

	if got := nav.RouteParams().Peek()["id"]; got != "7" {
		t.Errorf("RouteParams id = %q, want 7", got)
	}
	params := nav.Params().Peek()
	if params["id"] != "9" || params["tab"] != "posts" {
		t.Errorf("Params = %v, query values override route values", params)
	}
}

func TestRouteParamsUseFirstRegisteredPattern(t *testing.T) {
	nav, _ := newTestRouter(t, "/users/new")
	nav.RegisterPattern("/users/new")
	nav.RegisterPattern("/users/:id")
	nav.RegisterPattern("/users/new")

	if got := nav.RouteParams().Peek(); len(got) != 0 || got == nil {
		t.Errorf("RouteParams = %v, want an empty match", got)
	}
	if err := nav.Navigate("/users/3"); err != nil {
		t.Fatal(err)
	}
	if got := nav.RouteParams().Peek()["id"]; got != "3" {
		t.Errorf("id = %q", got)
	}
}

func TestMatch(t *testing.T) {
	nav, rt := newTestRouter(t, "/")
	user := nav.Match("/users/:id")
	if user != nav.Match("/users/:id") {
		t.Error("Match should share one computed per pattern")
	}

	runs := 0
	var last Params
	reactive.NewEffect(rt, func() {
		last = user.Get()
		runs++
	})
	if last != nil {
		t.Errorf("initial match = %v, want nil", last)
	}

	nav.Navigate("/about")
	nav.Navigate("/contact")
	if runs != 1 {
		t.Errorf("runs = %d, staying unmatched must not notify", runs)
	}

	nav.Navigate("/users/1")
	if last["id"] != "1" || runs != 2 {
		t.Errorf("last = %v, runs = %d", last, runs)
	}
	nav.Navigate("/users/1?tab=x")
	if runs != 2 {
		t.Errorf("runs = %d, same params must not notify", runs)
	}
	nav.Navigate("/users/2")
	if last["id"] != "2" || runs != 3 {
		t.Errorf("last = %v, runs = %d", last, runs)
	}
}

func TestMatchCreatedInsideEffectOutlivesIt(t *testing.T) {
	nav, rt := newTestRouter(t, "/a")
	tick := reactive.NewSignal(rt, 0)

	var m *reactive.Computed[Params]
	reactive.NewEffect(rt, func() {
		tick.Get()
		m = nav.Match("/b")
	})
	tick.Set(1)

	nav.Navigate("/b")
	if m.Peek() == nil {
		t.Error("match should keep tracking after the effect that created it re-ran")
	}
}

func TestNavigateInvalidPath(t *testing.T) {
	hook, navs := recordNavigations()
	nav, _ := newTestRouter(t, "/home", hook)

	err := nav.Navigate("https://example.com")
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("error = %v, want ErrInvalidPath", err)
	}
	if nav.URL() != "/home" || len(*navs) != 0 {
		t.Errorf("URL = %q, navigations = %v", nav.URL(), *navs)
	}
}

func TestGuards(t *testing.T) {
	nav, _ := newTestRouter(t, "/")

	var seen NavigationContext
	nav.AddGuard("/admin/*", func(NavigationContext) GuardResult { return Block() })
	nav.AddGuard("/users/:id", func(ctx NavigationContext) GuardResult {
		seen = ctx
		return Allow()
	})
	nav.AddGuard("/private", func(NavigationContext) GuardResult {
		return RedirectTo("/login?next=/private")
	})

	if err := nav.Navigate("/admin/settings"); !errors.Is(err, ErrNavigationBlocked) {
		t.Errorf("error = %v, want ErrNavigationBlocked", err)
	}
	if nav.URL() != "/" {
		t.Errorf("URL = %q after a blocked navigation", nav.URL())
	}

	if err := nav.Navigate("/users/5"); err != nil {
		t.Fatal(err)
	}
	if seen.From != "/" || seen.To != "/users/5" || seen.Params["id"] != "5" {
		t.Errorf("guard context = %+v", seen)
	}

	if err := nav.Navigate("/private"); err != nil {
		t.Fatal(err)
	}
	if nav.URL() != "/login?next=/private" {
		t.Errorf("URL = %q, want the redirect target", nav.URL())
	}
}

func TestGuardRedirectLoop(t *testing.T) {
	nav, _ := newTestRouter(t, "/")
	nav.AddGuard("/a", func(NavigationContext) GuardResult { return RedirectTo("/b") })
	nav.AddGuard("/b", func(NavigationContext) GuardResult { return RedirectTo("/a") })

	if err := nav.Navigate("/a"); !errors.Is(err, ErrNavigationBlocked) {
		t.Errorf("error = %v, want ErrNavigationBlocked", err)
	}
}

func TestMiddleware(t *testing.T) {
	nav, _ := newTestRouter(t, "/")
	nav.RegisterPattern("/docs/:page")

	var order []string
	nav.Use(
		func(ctx NavigationContext, next func() error) error {
			order = append(order, "outer:"+ctx.Params["page"])
			err := next()
			order = append(order, "outer done")
			return err
		},
		func(ctx NavigationContext, next func() error) error {
			order = append(order, "inner")
			return next()
		},
	)

	if err := nav.Navigate("/docs/intro"); err != nil {
		t.Fatal(err)
	}
	want := []string{"outer:intro", "inner", "outer done"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestMiddlewareStops(t *testing.T) {
	nav, _ := newTestRouter(t, "/")
	failure := errors.New("offline")
	nav.Use(func(ctx NavigationContext, next func() error) error {
		switch ctx.To {
		case "/stop":
			return nil
		case "/fail":
			return failure
		}
		return next()
	})

	if err := nav.Navigate("/stop"); !errors.Is(err, ErrNavigationBlocked) {
		t.Errorf("error = %v, want ErrNavigationBlocked", err)
	}
	if err := nav.Navigate("/fail"); !errors.Is(err, failure) {
		t.Errorf("error = %v, want the middleware error", err)
	}
	if nav.URL() != "/" {
		t.Errorf("URL = %q", nav.URL())
	}
	if err := nav.Navigate("/go"); err != nil || nav.URL() != "/go" {
		t.Errorf("URL = %q, error = %v", nav.URL(), err)
	}
}

func TestHistory(t *testing.T) {
	hook, navs := recordNavigations()
	nav, _ := newTestRouter(t, "/", hook)

	for _, u := range []string{"/a", "/b", "/c"} {
		if err := nav.Navigate(u); err != nil {
			t.Fatal(err)
		}
	}

	if !nav.Back() || nav.URL() != "/b" {
		t.Errorf("after Back URL = %q", nav.URL())
	}
	last := (*navs)[len(*navs)-1]
	if last.Delta != -1 || last.URL != "/b" {
		t.Errorf("navigation = %+v, want delta -1", last)
	}
	nav.Back()
	nav.Back()
	if nav.Back() {
		t.Error("Back at the first entry should report false")
	}
	if nav.URL() != "/" {
		t.Errorf("URL = %q", nav.URL())
	}

	if !nav.Forward() || nav.URL() != "/a" {
		t.Errorf("after Forward URL = %q", nav.URL())
	}
	nav.Navigate("/x")
	if nav.Forward() {
		t.Error("Navigate should drop forward entries")
	}
	nav.Navigate("/y", WithReplace())

	entries, index := nav.History()
	if !slices.Equal(entries, []string{"/", "/a", "/y"}) || index != 2 {
		t.Errorf("History() = %v, %d", entries, index)
	}
	if !(*navs)[len(*navs)-1].Replace {
		t.Error("replace navigation should be reported as such")
	}
	if nav.Go(0) || nav.Go(5) {
		t.Error("Go outside the history should report false")
	}
	if !nav.Go(-2) || nav.URL() != "/" {
		t.Errorf("after Go(-2) URL = %q", nav.URL())
	}
}

func TestSync(t *testing.T) {
	hook, navs := recordNavigations()
	nav, _ := newTestRouter(t, "/", hook)
	nav.Navigate("/a")
	nav.Navigate("/b")
	reported := len(*navs)

	if err := nav.Sync("/a"); err != nil {
		t.Fatal(err)
	}
	if _, index := nav.History(); nav.URL() != "/a" || index != 1 {
		t.Errorf("URL = %q, index = %d", nav.URL(), index)
	}
	if err := nav.Sync("/a"); err != nil {
		t.Fatal(err)
	}
	nav.Sync("/b")
	if _, index := nav.History(); index != 2 {
		t.Errorf("index = %d, want 2", index)
	}
	if len(*navs) != reported {
		t.Errorf("Sync reported %d navigations, the browser is already there", len(*navs)-reported)
	}

	if err := nav.Sync("bad"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("error = %v", err)
	}
}

func TestSyncRespectsGuards(t *testing.T) {
	hook, navs := recordNavigations()
	nav, _ := newTestRouter(t, "/", hook)
	nav.AddGuard("/secret", func(NavigationContext) GuardResult { return Block() })
	nav.AddGuard("/old", func(NavigationContext) GuardResult { return RedirectTo("/new") })

	if err := nav.Sync("/secret"); !errors.Is(err, ErrNavigationBlocked) {
		t.Fatalf("error = %v", err)
	}
	if nav.URL() != "/" {
		t.Errorf("URL = %q", nav.URL())
	}
	last := (*navs)[len(*navs)-1]
	if last.URL != "/" || !last.Replace {
		t.Errorf("navigation = %+v, the browser entry should be replaced", last)
	}

	if err := nav.Sync("/old"); err != nil {
		t.Fatal(err)
	}
	last = (*navs)[len(*navs)-1]
	if nav.URL() != "/new" || last.URL != "/new" || !last.Replace {
		t.Errorf("URL = %q, navigation = %+v", nav.URL(), last)
	}
}

func TestProvideAndFrom(t *testing.T) {
	nav, rt := newTestRouter(t, "/")
	r := render.New(dom.NewDocument(), rt)

	if From(r) != nil {
		t.Error("From should be nil before Provide")
	}
	Provide(r, nav)
	if From(r) != nav {
		t.Error("From should return the provided router")
	}
}
