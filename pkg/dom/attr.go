package dom

import (
	"fmt"
	"strings"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
)

// Attributes returns a copy of the element's attributes in insertion order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute on an element. Setting an attribute to
// its current value is reported like any other change.
func (n *Node) SetAttribute(name, value string) {
	if n.typ != ElementNode {
		return
	}
	if !n.IsSVG() {
		name = strings.ToLower(name)
	}
	found := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	}
	n.doc.emit(Mutation{Op: MutationSetAttr, Target: n, Name: name, Value: value})
}

// RemoveAttribute removes an attribute. Removing an absent attribute does
// nothing.
func (n *Node) RemoveAttribute(name string) {
	if !n.IsSVG() {
		name = strings.ToLower(name)
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.emit(Mutation{Op: MutationRemoveAttr, Target: n, Name: name})
			return
		}
	}
}

// reflected maps HTML properties onto the attribute that backs them.
var reflected = map[string]string{
	"className":   "class",
	"id":          "id",
	"htmlFor":     "for",
	"title":       "title",
	"href":        "href",
	"src":         "src",
	"type":        "type",
	"name":        "name",
	"placeholder": "placeholder",
	"role":        "role",
	"tabIndex":    "tabindex",
}

// svgReadOnly lists properties that SVG elements expose as animated value
// objects. Assigning them fails in a browser.
var svgReadOnly = map[string]bool{
	"className":           true,
	"width":               true,
	"height":              true,
	"x":                   true,
	"y":                   true,
	"cx":                  true,
	"cy":                  true,
	"r":                   true,
	"rx":                  true,
	"ry":                  true,
	"x1":                  true,
	"y1":                  true,
	"x2":                  true,
	"y2":                  true,
	"viewBox":             true,
	"points":              true,
	"transform":           true,
	"href":                true,
	"gradientUnits":       true,
	"preserveAspectRatio": true,
}

// SetProperty assigns a property on an element.
//
// Reflected properties such as className write the backing attribute.
// textContent replaces the children. Anything else is live element state
// (value, checked, scrollTop, ...) kept alongside the attributes.
// On SVG elements, reflected geometry properties are read-only and return
// ErrReadOnlyProperty.
func (n *Node) SetProperty(name string, value any) error {
	if n.typ != ElementNode {
		return hierarchyError("%s node %d has no properties", n.typ, n.id)
	}
	if n.IsSVG() && svgReadOnly[name] {
		return fuseerrors.New(ErrReadOnlyProperty.Code).
			WithDetail(fmt.Sprintf("property %q of <%s> is read-only", name, n.tag))
	}
	if name == "textContent" {
		n.SetTextContent(stringify(value))
		return nil
	}
	if attr, ok := reflected[name]; ok && !n.IsSVG() {
		n.SetAttribute(attr, stringify(value))
		return nil
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.emit(Mutation{Op: MutationSetProp, Target: n, Name: name, Value: value})
	return nil
}

// Property returns the current value of a property set with SetProperty,
// or of the attribute a reflected property maps to.
func (n *Node) Property(name string) (any, bool) {
	if name == "textContent" {
		return n.TextContent(), true
	}
	if attr, ok := reflected[name]; ok && !n.IsSVG() {
		v, ok := n.GetAttribute(attr)
		return v, ok
	}
	v, ok := n.props[name]
	return v, ok
}

// Properties returns a copy of the live property state.
func (n *Node) Properties() map[string]any {
	out := make(map[string]any, len(n.props))
	for k, v := range n.props {
		out[k] = v
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
