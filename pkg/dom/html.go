package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes the HTML serialization of n and its subtree to w.
// A fragment renders its children. Live properties are not serialized.
func Render(w io.Writer, n *Node) error {
	if n.typ == FragmentNode {
		for c := n.firstChild; c != nil; c = c.next {
			if err := html.Render(w, toHTML(c)); err != nil {
				return err
			}
		}
		return nil
	}
	return html.Render(w, toHTML(n))
}

// OuterHTML returns the HTML serialization of n.
func OuterHTML(n *Node) string {
	var sb strings.Builder
	_ = Render(&sb, n)
	return sb.String()
}

// InnerHTML returns the serialization of n's children.
func InnerHTML(n *Node) string {
	var sb strings.Builder
	for c := n.firstChild; c != nil; c = c.next {
		_ = Render(&sb, c)
	}
	return sb.String()
}

func toHTML(n *Node) *html.Node {
	switch n.typ {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.data}
	case FragmentNode:
		hn := &html.Node{Type: html.DocumentNode}
		for c := n.firstChild; c != nil; c = c.next {
			hn.AppendChild(toHTML(c))
		}
		return hn
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
	}
	if n.ns == SVGNamespace {
		hn.Namespace = "svg"
	}
	for _, a := range n.attrs {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	for c := n.firstChild; c != nil; c = c.next {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

// ParseHTML parses an HTML fragment in the context of a <body> element and
// returns the resulting top-level nodes, unattached.
func (d *Document) ParseHTML(r io.Reader) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := d.fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (d *Document) fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.TextNode:
		return d.CreateTextNode(hn.Data)
	case html.CommentNode:
		return d.CreateComment(hn.Data)
	case html.ElementNode:
		if hn.Namespace == "svg" {
			n = d.CreateElementNS(SVGNamespace, hn.Data)
		} else {
			n = d.CreateElement(hn.Data)
		}
		for _, a := range hn.Attr {
			n.attrs = append(n.attrs, Attribute{Name: a.Key, Value: a.Val})
		}
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := d.fromHTML(c); child != nil {
			n.link(child, nil)
		}
	}
	return n
}
