// Package router maps the session URL onto reactive state.
//
// A Router holds the current location in a signal. Path, query and
// route parameters are computed values, so a component that reads them
// re-renders when a navigation changes them:
//
//	nav := router.New(rt, "/users/42")
//	user := nav.Match("/users/:id")
//
//	render.Dynamic(func() render.Child {
//	    if p := user.Get(); p != nil {
//	        return render.Text("user " + p["id"])
//	    }
//	    return render.Text("not found")
//	})
//
// # Patterns
//
// A pattern is a slash separated list of segments. A segment starting
// with ":" captures one path segment under that name; a final "*"
// captures the rest of the path:
//
//	/about          → matches /about only
//	/users/:id      → /users/42            {id: "42"}
//	/files/*        → /files/a/b.txt       {*: "a/b.txt"}
//
// Captured values are percent-decoded. Params.Decode copies them into a
// struct through `param` tags.
//
// # Navigation
//
// Navigate canonicalizes the target, runs guards whose pattern matches
// it, then runs the middleware chain. The location changes only when the
// chain reaches its end. Every committed navigation is reported to the
// navigate hook, which the live session turns into a history update in
// the browser.
package router
