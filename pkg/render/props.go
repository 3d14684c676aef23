package render

import (
	"fmt"
	"strings"

	"github.com/vango-dev/fuse/pkg/dom"
)

// svgElements are created in the SVG namespace. Names are case-sensitive.
var svgElements = map[string]bool{
	"svg":              true,
	"g":                true,
	"path":             true,
	"circle":           true,
	"ellipse":          true,
	"line":             true,
	"polyline":         true,
	"polygon":          true,
	"rect":             true,
	"text":             true,
	"tspan":            true,
	"textPath":         true,
	"defs":             true,
	"use":              true,
	"symbol":           true,
	"marker":           true,
	"mask":             true,
	"pattern":          true,
	"clipPath":         true,
	"linearGradient":   true,
	"radialGradient":   true,
	"stop":             true,
	"filter":           true,
	"feGaussianBlur":   true,
	"feOffset":         true,
	"feBlend":          true,
	"feColorMatrix":    true,
	"foreignObject":    true,
	"image":            true,
	"animate":          true,
	"animateTransform": true,
	"desc":             true,
}

// IsSVGElement reports whether tag is created in the SVG namespace.
func IsSVGElement(tag string) bool {
	return svgElements[tag]
}

// domProperties are written as live properties instead of attributes.
var domProperties = map[string]bool{
	"value":         true,
	"checked":       true,
	"selected":      true,
	"indeterminate": true,
	"textContent":   true,
	"scrollTop":     true,
	"scrollLeft":    true,
	"muted":         true,
}

func (r *Renderer) createElement(tag string) *dom.Node {
	if svgElements[tag] {
		return r.doc.CreateElementNS(dom.SVGNamespace, tag)
	}
	return r.doc.CreateElement(tag)
}

// applyProp attaches a handler, binds a reactive value, or assigns a static
// one.
func (r *Renderer) applyProp(el *dom.Node, key string, v Value) {
	switch v.kind {
	case ValueHandler:
		if v.handler == nil {
			return
		}
		remove := el.AddEventListener(eventName(key), v.handler)
		r.bind(el, remove)

	case ValueReactive:
		r.effect(el, func() {
			r.setProp(el, key, v.fn())
		})

	case ValueStatic:
		r.setProp(el, key, v.static)
	}
}

// eventName maps onClick to click. Keys without the prefix are used as is.
func eventName(key string) string {
	if len(key) > 2 && strings.EqualFold(key[:2], "on") {
		return strings.ToLower(key[2:])
	}
	return key
}

// setProp writes one value. SVG elements always take the attribute path.
func (r *Renderer) setProp(el *dom.Node, key string, v any) {
	if key == "className" {
		key = "class"
	}
	if el.IsSVG() || !domProperties[key] {
		setAttr(el, key, v)
		return
	}
	if err := el.SetProperty(key, v); err != nil {
		r.logger.Error("set property",
			"node", el.ID(),
			"property", key,
			"error", err)
	}
}

// setAttr removes the attribute for nil and false, and sets it empty for
// true.
func setAttr(el *dom.Node, name string, v any) {
	switch x := v.(type) {
	case nil:
		el.RemoveAttribute(name)
	case bool:
		if x {
			el.SetAttribute(name, "")
		} else {
			el.RemoveAttribute(name)
		}
	case string:
		el.SetAttribute(name, x)
	case fmt.Stringer:
		el.SetAttribute(name, x.String())
	default:
		el.SetAttribute(name, fmt.Sprint(x))
	}
}
