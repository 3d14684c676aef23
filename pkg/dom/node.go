package dom

import "strings"

// NodeType identifies the kind of a Node.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	FragmentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Namespace URIs for CreateElementNS.
const (
	HTMLNamespace = "http://www.w3.org/1999/xhtml"
	SVGNamespace  = "http://www.w3.org/2000/svg"
)

// Attribute is a name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Node is a single node in a Document.
type Node struct {
	id  uint64
	typ NodeType
	doc *Document

	tag  string
	ns   string
	data string

	attrs []Attribute
	props map[string]any

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node
	childCount int

	connected bool

	listeners   map[string][]*listener
	attachHooks []func()
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// OwnerDocument returns the document that created the node.
func (n *Node) OwnerDocument() *Document { return n.doc }

// Tag returns the element's tag name, or "" for non-elements.
func (n *Node) Tag() string { return n.tag }

// Namespace returns the element's namespace URI.
func (n *Node) Namespace() string { return n.ns }

// IsSVG reports whether the node is an element in the SVG namespace.
func (n *Node) IsSVG() bool { return n.typ == ElementNode && n.ns == SVGNamespace }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// PreviousSibling returns the previous sibling, or nil.
func (n *Node) PreviousSibling() *Node { return n.prev }

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node { return n.next }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return n.childCount }

// ChildNodes returns a snapshot of the node's children.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, 0, n.childCount)
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// IsConnected reports whether the node is part of its document's tree.
func (n *Node) IsConnected() bool { return n.connected }

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the character data of a text or comment node.
func (n *Node) SetData(data string) {
	if n.typ != TextNode && n.typ != CommentNode {
		return
	}
	n.data = data
	n.doc.emit(Mutation{Op: MutationSetText, Target: n, Value: data})
}

// TextContent returns the concatenated data of all descendant text nodes.
func (n *Node) TextContent() string {
	switch n.typ {
	case TextNode, CommentNode:
		return n.data
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.next {
		switch c.typ {
		case TextNode:
			sb.WriteString(c.data)
		case ElementNode, FragmentNode:
			c.collectText(sb)
		}
	}
}

// SetTextContent replaces the children of an element with a single text
// node, or sets the data of a text or comment node.
func (n *Node) SetTextContent(s string) {
	switch n.typ {
	case TextNode, CommentNode:
		n.SetData(s)
		return
	}
	if s == "" {
		_ = n.ReplaceChildren()
		return
	}
	_ = n.ReplaceChildren(n.doc.CreateTextNode(s))
}

// OnAttach registers fn to run once, the first time the node is given a
// parent. If the node already has a parent, fn runs immediately.
func (n *Node) OnAttach(fn func()) {
	if n.parent != nil {
		fn()
		return
	}
	n.attachHooks = append(n.attachHooks, fn)
}

func (n *Node) fireAttach() {
	if len(n.attachHooks) == 0 {
		return
	}
	hooks := n.attachHooks
	n.attachHooks = nil
	for _, fn := range hooks {
		fn()
	}
}
