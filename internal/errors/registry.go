package errors

import (
	"sort"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

var (
	// registry maps error codes to their templates.
	registry = map[string]ErrorTemplate{
		// ============================================
		// Runtime Errors (E001-E039)
		// ============================================

		"E001": {
			Category: CategoryRuntime,
			Message:  "Render called with a nil container",
			Detail:   "Render replaces the children of a container node. Pass the element that should host the tree, for example doc.Body().",
			DocURL:   "https://fuse.dev/docs/errors/E001",
		},
		"E002": {
			Category: CategoryRuntime,
			Message:  "Reactive propagation too deep",
			Detail:   "A signal update re-entered effects more times than the runtime allows. This usually means an effect sets a signal it also reads.",
			DocURL:   "https://fuse.dev/docs/errors/E002",
		},
		"E003": {
			Category: CategoryRuntime,
			Message:  "Effect panicked",
			Detail:   "An effect body panicked. The panic was recovered so the remaining subscribers of the signal still ran.",
			DocURL:   "https://fuse.dev/docs/errors/E003",
		},

		// ============================================
		// DOM Errors (E040-E059)
		// ============================================

		"E040": {
			Category: CategoryDOM,
			Message:  "Property is read-only",
			Detail:   "The property cannot be assigned on this element. SVG elements expose reflected properties as read-only objects; use SetAttribute instead.",
			DocURL:   "https://fuse.dev/docs/errors/E040",
		},
		"E041": {
			Category: CategoryDOM,
			Message:  "Invalid node hierarchy",
			Detail:   "The insertion would place a node inside itself, inside a text node, or into another document.",
			DocURL:   "https://fuse.dev/docs/errors/E041",
		},
		"E042": {
			Category: CategoryDOM,
			Message:  "Node is not a child",
			Detail:   "The reference node passed to InsertBefore or RemoveChild is not a child of the parent.",
			DocURL:   "https://fuse.dev/docs/errors/E042",
		},

		// ============================================
		// Protocol Errors (E060-E079)
		// ============================================

		"E060": {
			Category: CategoryProtocol,
			Message:  "Malformed client frame",
			Detail:   "The live client sent a frame that could not be decoded.",
			DocURL:   "https://fuse.dev/docs/errors/E060",
		},
		"E061": {
			Category: CategoryProtocol,
			Message:  "Unknown event target",
			Detail:   "The client referenced a node id that no longer exists in the session document.",
			DocURL:   "https://fuse.dev/docs/errors/E061",
		},
		"E062": {
			Category: CategoryProtocol,
			Message:  "Session closed",
			Detail:   "The live session has shut down and no longer accepts events.",
			DocURL:   "https://fuse.dev/docs/errors/E062",
		},

		// ============================================
		// Routing Errors (E080-E099)
		// ============================================

		"E080": {
			Category: CategoryRouting,
			Message:  "Invalid route path",
			Detail:   "Navigation targets must be absolute paths such as /users/42. Relative paths, schemes and hosts are rejected.",
			DocURL:   "https://fuse.dev/docs/errors/E080",
		},
		"E081": {
			Category: CategoryRouting,
			Message:  "Navigation blocked",
			Detail:   "A route guard refused the navigation and did not redirect.",
			DocURL:   "https://fuse.dev/docs/errors/E081",
		},

		// ============================================
		// Config Errors (E100-E119)
		// ============================================

		"E100": {
			Category: CategoryConfig,
			Message:  "Invalid configuration file",
			Detail:   "fuse.json could not be parsed as JSON.",
			DocURL:   "https://fuse.dev/docs/errors/E100",
		},
		"E101": {
			Category: CategoryConfig,
			Message:  "Invalid port",
			Detail:   "The server port must be between 1 and 65535.",
			DocURL:   "https://fuse.dev/docs/errors/E101",
		},
		"E102": {
			Category: CategoryConfig,
			Message:  "Invalid log settings",
			Detail:   "log.level must be one of debug, info, warn, error and log.format must be text or json.",
			DocURL:   "https://fuse.dev/docs/errors/E102",
		},
		"E103": {
			Category: CategoryConfig,
			Message:  "Invalid reactive limits",
			Detail:   "reactive.maxDepth must be a positive number.",
			DocURL:   "https://fuse.dev/docs/errors/E103",
		},

		// ============================================
		// CLI Errors (E140-E159)
		// ============================================

		"E140": {
			Category: CategoryCLI,
			Message:  "Unknown demo",
			Detail:   "The requested demo application does not exist. Run fuse dump --help for the list.",
			DocURL:   "https://fuse.dev/docs/errors/E140",
		},
		"E141": {
			Category: CategoryCLI,
			Message:  "Server failed",
			Detail:   "The live server stopped with an error.",
			DocURL:   "https://fuse.dev/docs/errors/E141",
		},
		"E142": {
			Category: CategoryCLI,
			Message:  "Unknown error code",
			Detail:   "The code passed to fuse errors is not registered.",
			DocURL:   "https://fuse.dev/docs/errors/E142",
		},
	}
)

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
