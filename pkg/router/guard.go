package router

// NavigationContext describes a navigation to guards and middleware.
type NavigationContext struct {
	// From is the URL being left.
	From string

	// To is the canonical target URL.
	To string

	// Params are the parameters captured from To: by the guard's own
	// pattern for a guard, by the first matching registered pattern for
	// middleware.
	Params Params
}

// GuardResult is a guard's decision.
type GuardResult struct {
	// Allow lets the navigation continue.
	Allow bool

	// Redirect, when Allow is false, names the URL to navigate to
	// instead. Empty blocks the navigation.
	Redirect string
}

// Guard decides whether a navigation may proceed.
type Guard func(ctx NavigationContext) GuardResult

// Allow lets a navigation continue.
func Allow() GuardResult { return GuardResult{Allow: true} }

// Block stops a navigation.
func Block() GuardResult { return GuardResult{} }

// RedirectTo sends a navigation to url instead.
func RedirectTo(url string) GuardResult { return GuardResult{Redirect: url} }

type guardEntry struct {
	pattern string
	guard   Guard
}

// AddGuard runs guard for every navigation whose target path matches
// pattern. Guards run in the order they were added; the first one that
// refuses decides.
func (r *Router) AddGuard(pattern string, guard Guard) {
	r.guards = append(r.guards, guardEntry{pattern: pattern, guard: guard})
}

// guard runs the guards for the canonical URL to. It returns a redirect
// target, or "" when every guard allowed it.
func (r *Router) guard(to string) (string, error) {
	path := splitURL(to).Path
	for _, g := range r.guards {
		params, ok := r.matcher.Match(path, g.pattern)
		if !ok {
			continue
		}
		res := g.guard(NavigationContext{From: r.URL(), To: to, Params: params})
		if res.Allow {
			continue
		}
		if res.Redirect == "" {
			return "", blocked("a guard on " + g.pattern + " refused " + to)
		}
		return res.Redirect, nil
	}
	return "", nil
}

// Middleware wraps a navigation. It calls next to let the navigation
// continue; returning without calling next stops it.
type Middleware func(ctx NavigationContext, next func() error) error

// Use appends middleware to the chain Navigate runs. Middleware runs in
// the order it was added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// run builds the middleware chain around commit and runs it.
func (r *Router) run(ctx NavigationContext, commit func()) error {
	committed := false
	chain := func() error {
		commit()
		committed = true
		return nil
	}
	for i := len(r.middleware) - 1; i >= 0; i-- {
		m := r.middleware[i]
		next := chain
		chain = func() error {
			return m(ctx, next)
		}
	}

	if err := chain(); err != nil {
		return err
	}
	if !committed {
		return blocked("middleware stopped the navigation to " + ctx.To)
	}
	return nil
}
