package router

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

// maxRedirects bounds guard redirects within one navigation.
const maxRedirects = 8

// Location is a canonical URL split into path and query. Query has no
// leading "?".
type Location struct {
	Path  string
	Query string
}

// String returns the location as a URL.
func (l Location) String() string {
	if l.Query == "" {
		return l.Path
	}
	return l.Path + "?" + l.Query
}

// Navigation describes a committed location change.
type Navigation struct {
	// URL is the new location.
	URL string

	// Replace is set when the current history entry was replaced.
	Replace bool

	// Delta is the history offset for Back, Forward and Go; zero for
	// Navigate.
	Delta int
}

// NavigateOptions configures one navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// Router holds the current location of one session.
// Like the runtime it is bound to, it is not safe for concurrent use.
type Router struct {
	rt      *reactive.Runtime
	matcher *Matcher
	logger  *slog.Logger

	location *reactive.Signal[Location]
	patterns *reactive.Signal[[]string]

	path        *reactive.Computed[string]
	query       *reactive.Computed[string]
	routeParams *reactive.Computed[Params]
	params      *reactive.Computed[Params]
	matches     map[string]*reactive.Computed[Params]

	guards     []guardEntry
	middleware []Middleware
	onNavigate func(Navigation)

	history []string
	index   int
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for refused link navigations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNavigateHook calls fn after every committed navigation.
func WithNavigateHook(fn func(Navigation)) Option {
	return func(r *Router) {
		r.onNavigate = fn
	}
}

// New creates a router on rt starting at initial. An initial URL that
// fails Canonicalize starts the router at "/".
func New(rt *reactive.Runtime, initial string, opts ...Option) *Router {
	r := &Router{
		rt:      rt,
		matcher: NewMatcher(),
		logger:  slog.Default().With("component", "router"),
		matches: make(map[string]*reactive.Computed[Params]),
	}
	for _, opt := range opts {
		opt(r)
	}

	start, err := Canonicalize(initial)
	if err != nil {
		r.logger.Warn("invalid initial url", "url", initial, "error", err)
		start = "/"
	}
	r.history = []string{start}

	r.location = reactive.NewSignal(rt, splitURL(start)).WithEquals(reactive.Equal[Location])
	r.patterns = reactive.NewSignal(rt, []string(nil))

	rt.Untracked(func() {
		r.path = reactive.NewComputed(rt, func() string {
			return r.location.Get().Path
		}).WithEquals(reactive.Equal[string])
		r.query = reactive.NewComputed(rt, func() string {
			return r.location.Get().Query
		}).WithEquals(reactive.Equal[string])
		r.routeParams = reactive.NewComputed(rt, func() Params {
			return r.firstMatch(r.path.Get(), r.patterns.Get())
		}).WithEquals(equalParams)
		r.params = reactive.NewComputed(rt, func() Params {
			merged := maps.Clone(r.routeParams.Get())
			maps.Copy(merged, ParseQuery(r.query.Get()))
			return merged
		}).WithEquals(equalParams)
	})
	return r
}

// firstMatch returns the parameters of the first pattern path matches, or
// an empty map.
func (r *Router) firstMatch(path string, patterns []string) Params {
	for _, p := range patterns {
		if params, ok := r.matcher.Match(path, p); ok {
			return params
		}
	}
	return Params{}
}

// URL returns the current location without tracking.
func (r *Router) URL() string {
	return r.location.Peek().String()
}

// Location returns the current location and subscribes the running
// effect.
func (r *Router) Location() Location {
	return r.location.Get()
}

// Path is the current path.
func (r *Router) Path() *reactive.Computed[string] { return r.path }

// Query is the current query string without its "?".
func (r *Router) Query() *reactive.Computed[string] { return r.query }

// RouteParams holds the parameters of the first registered pattern that
// matches the current path, in registration order.
func (r *Router) RouteParams() *reactive.Computed[Params] { return r.routeParams }

// Params is RouteParams merged with the query parameters. A query
// parameter overrides a route parameter of the same name.
func (r *Router) Params() *reactive.Computed[Params] { return r.params }

// Matcher returns the matcher the router uses.
func (r *Router) Matcher() *Matcher { return r.matcher }

// RegisterPattern adds pattern to the patterns RouteParams is resolved
// against. Registering a pattern twice has no effect.
func (r *Router) RegisterPattern(pattern string) {
	current := r.patterns.Peek()
	if slices.Contains(current, pattern) {
		return
	}
	r.patterns.Set(append(slices.Clone(current), pattern))
}

// Match registers pattern and returns a computed value holding its
// parameters while the current path matches it, and nil otherwise.
// Calls with the same pattern share one computed value.
func (r *Router) Match(pattern string) *reactive.Computed[Params] {
	r.RegisterPattern(pattern)
	if m, ok := r.matches[pattern]; ok {
		return m
	}
	var m *reactive.Computed[Params]
	r.rt.Untracked(func() {
		m = reactive.NewComputed(r.rt, func() Params {
			params, ok := r.matcher.Match(r.path.Get(), pattern)
			if !ok {
				return nil
			}
			return params
		}).WithEquals(equalParams)
	})
	r.matches[pattern] = m
	return m
}

// Navigate moves to url. The target is canonicalized, checked by the
// guards whose pattern matches it, then passed through the middleware
// chain. The returned error matches ErrInvalidPath or
// ErrNavigationBlocked when the navigation did not happen.
func (r *Router) Navigate(url string, opts ...NavigateOption) error {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	to, err := r.check(url)
	if err != nil {
		return err
	}
	ctx := NavigationContext{
		From:   r.URL(),
		To:     to,
		Params: r.firstMatch(splitURL(to).Path, r.patterns.Peek()),
	}
	return r.run(ctx, func() {
		if o.Replace {
			r.history[r.index] = to
		} else {
			r.history = append(r.history[:r.index+1], to)
			r.index++
		}
		r.location.Set(splitURL(to))
		r.notify(Navigation{URL: to, Replace: o.Replace})
	})
}

// check canonicalizes url and follows guard redirects until every
// matching guard allows the target.
func (r *Router) check(url string) (string, error) {
	for range maxRedirects {
		to, err := Canonicalize(url)
		if err != nil {
			return "", err
		}
		redirect, err := r.guard(to)
		if err != nil {
			return "", err
		}
		if redirect == "" {
			return to, nil
		}
		url = redirect
	}
	return "", blocked(fmt.Sprintf("more than %d guard redirects starting at %s", maxRedirects, url))
}

// Back moves one entry back in the history. It reports false at the
// first entry.
func (r *Router) Back() bool { return r.Go(-1) }

// Forward moves one entry forward in the history. It reports false at
// the last entry.
func (r *Router) Forward() bool { return r.Go(1) }

// Go moves delta entries through the history without running guards or
// middleware. It reports false when the target entry does not exist.
func (r *Router) Go(delta int) bool {
	i := r.index + delta
	if delta == 0 || i < 0 || i >= len(r.history) {
		return false
	}
	r.index = i
	r.location.Set(splitURL(r.history[i]))
	r.notify(Navigation{URL: r.history[i], Delta: delta})
	return true
}

// Sync adopts a location the browser moved to on its own, such as after
// the back button. Guards run; when one refuses or redirects, the navigate
// hook is told to replace the browser entry with the resulting location.
// Middleware does not run.
func (r *Router) Sync(url string) error {
	to, err := Canonicalize(url)
	if err != nil {
		return err
	}
	if to == r.URL() {
		return nil
	}

	switch {
	case r.index > 0 && r.history[r.index-1] == to:
		r.index--
	case r.index+1 < len(r.history) && r.history[r.index+1] == to:
		r.index++
	default:
		r.history = append(r.history[:r.index+1], to)
		r.index++
	}

	checked, err := r.check(to)
	if err != nil {
		r.history[r.index] = r.URL()
		r.notify(Navigation{URL: r.URL(), Replace: true})
		return err
	}
	r.history[r.index] = checked
	r.location.Set(splitURL(checked))
	if checked != to {
		r.notify(Navigation{URL: checked, Replace: true})
	}
	return nil
}

// History returns the history entries and the index of the current one.
func (r *Router) History() ([]string, int) {
	return slices.Clone(r.history), r.index
}

func (r *Router) notify(n Navigation) {
	if r.onNavigate != nil {
		r.onNavigate(n)
	}
}

// Dispose stops every computed value the router owns.
func (r *Router) Dispose() {
	for _, m := range r.matches {
		m.Dispose()
	}
	r.params.Dispose()
	r.routeParams.Dispose()
	r.query.Dispose()
	r.path.Dispose()
}

var routerContext = render.CreateContext[*Router](nil)

// Provide makes nav the router returned by From for r.
func Provide(r *render.Renderer, nav *Router) {
	routerContext.Provide(r, nav)
}

// From returns the router provided for r, or nil.
func From(r *render.Renderer) *Router {
	return routerContext.Use(r)
}
