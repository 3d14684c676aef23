package render

// Context carries a value to every component built by one Renderer.
// Create it once at package level with CreateContext, provide a value
// with Provide and read it with Use.
//
// Example:
//
//	var ThemeContext = render.CreateContext("light")
//
//	func Button(r *render.Renderer) *dom.Node {
//	    return r.El("button", render.Class("btn-"+ThemeContext.Use(r)))
//	}
type Context[T any] struct {
	// key identifies this context in the renderer value map
	key *contextKey

	// defaultValue is returned when no value was provided
	defaultValue T
}

// contextKey gives each context a distinct map key.
type contextKey struct{}

// CreateContext creates a context whose Use returns defaultValue until a
// value is provided.
func CreateContext[T any](defaultValue T) *Context[T] {
	return &Context[T]{
		key:          &contextKey{},
		defaultValue: defaultValue,
	}
}

// Provide stores value for every later Use on r.
func (c *Context[T]) Provide(r *Renderer, value T) {
	if r.values == nil {
		r.values = make(map[any]any)
	}
	r.values[c.key] = value
}

// Use returns the value provided on r, or the default.
func (c *Context[T]) Use(r *Renderer) T {
	if value, ok := r.values[c.key]; ok {
		if typed, ok := value.(T); ok {
			return typed
		}
	}
	return c.defaultValue
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
