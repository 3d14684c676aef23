package router

import (
	"encoding/json"
	"net/http"
	"strings"
)

// APIHandler answers a request with a value to encode as JSON.
type APIHandler func(params, query Params) any

type apiRoute struct {
	method  string
	pattern string
	handler APIHandler
}

// API routes method and path pairs to handlers. Routes are tried in the
// order they were registered. Register routes before serving; Handle and
// ServeHTTP are then safe for concurrent use.
type API struct {
	routes  []apiRoute
	matcher *Matcher
}

// NewAPI creates an empty API router.
func NewAPI() *API {
	return &API{matcher: NewMatcher()}
}

// Get registers h for GET requests matching pattern.
func (a *API) Get(pattern string, h APIHandler) { a.register(http.MethodGet, pattern, h) }

// Post registers h for POST requests matching pattern.
func (a *API) Post(pattern string, h APIHandler) { a.register(http.MethodPost, pattern, h) }

// Put registers h for PUT requests matching pattern.
func (a *API) Put(pattern string, h APIHandler) { a.register(http.MethodPut, pattern, h) }

// Delete registers h for DELETE requests matching pattern.
func (a *API) Delete(pattern string, h APIHandler) { a.register(http.MethodDelete, pattern, h) }

// Patch registers h for PATCH requests matching pattern.
func (a *API) Patch(pattern string, h APIHandler) { a.register(http.MethodPatch, pattern, h) }

func (a *API) register(method, pattern string, h APIHandler) {
	a.routes = append(a.routes, apiRoute{method: method, pattern: pattern, handler: h})
}

// Handle runs the first handler registered for method whose pattern
// matches path. It reports false when none does.
func (a *API) Handle(method, path string, query Params) (any, bool) {
	path, _, _ = strings.Cut(path, "?")
	for _, rt := range a.routes {
		if rt.method != method {
			continue
		}
		if params, ok := a.matcher.Match(path, rt.pattern); ok {
			return rt.handler(params, query), true
		}
	}
	return nil, false
}

// ServeHTTP answers with the JSON encoding of the matching handler's
// result, or 404 when no route matches.
func (a *API) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	out, ok := a.Handle(req.Method, req.URL.Path, ParseQuery(req.URL.RawQuery))
	if !ok {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
