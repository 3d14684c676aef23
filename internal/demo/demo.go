// Package demo holds the example applications served by fuse serve and
// rendered by fuse dump.
package demo

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/live"
)

// App is a named demo application.
type App struct {
	Name        string
	Title       string
	Description string
	Build       live.App

	// API, when set, is served under /api next to the live session.
	API http.Handler
}

var apps = []App{
	{
		Name:        "counter",
		Title:       "Counter",
		Description: "signals, a computed value and a conditional badge",
		Build:       Counter,
	},
	{
		Name:        "todo",
		Title:       "Todos",
		Description: "keyed list reconciliation with in-place updates",
		Build:       TodoList,
	},
	{
		Name:        "log",
		Title:       "Virtual log",
		Description: "a virtualized list over tens of thousands of rows",
		Build:       VirtualLog,
	},
	{
		Name:        "pages",
		Title:       "Pages",
		Description: "routing with active links, route params, guards and history",
		Build:       Pages,
		API:         PeopleAPI,
	},
}

// Apps returns every demo in display order.
func Apps() []App {
	out := make([]App, len(apps))
	copy(out, apps)
	return out
}

// Names returns the demo names.
func Names() []string {
	names := make([]string, len(apps))
	for i, a := range apps {
		names[i] = a.Name
	}
	return names
}

// Lookup returns the demo called name.
func Lookup(name string) (App, error) {
	for _, a := range apps {
		if a.Name == name {
			return a, nil
		}
	}
	return App{}, errors.New("E140").
		WithDetail(fmt.Sprintf("No demo named %q.", name)).
		WithSuggestion("Available demos: " + strings.Join(Names(), ", "))
}
