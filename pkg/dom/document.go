package dom

import "strings"

// Document owns a tree of nodes rooted at an <html> element with <head>
// and <body> children.
type Document struct {
	nextID    uint64
	nodes     map[uint64]*Node
	root      *Node
	head      *Node
	body      *Node
	observers []*observerEntry
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{nodes: make(map[uint64]*Node)}
	d.root = d.newElement("html", HTMLNamespace)
	d.root.connected = true
	d.nodes[d.root.id] = d.root

	d.head = d.newElement("head", HTMLNamespace)
	d.body = d.newElement("body", HTMLNamespace)
	_ = d.root.AppendChild(d.head)
	_ = d.root.AppendChild(d.body)
	return d
}

// Root returns the <html> element.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

// NodeByID returns the connected node with the given id, or nil.
func (d *Document) NodeByID(id uint64) *Node {
	return d.nodes[id]
}

// CreateElement creates an HTML element. The tag is lowercased.
func (d *Document) CreateElement(tag string) *Node {
	return d.newElement(strings.ToLower(tag), HTMLNamespace)
}

// CreateElementNS creates an element in the given namespace. The tag keeps
// its case, as SVG uses mixed-case names such as linearGradient.
func (d *Document) CreateElementNS(ns, tag string) *Node {
	if ns == "" {
		ns = HTMLNamespace
	}
	return d.newElement(tag, ns)
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := d.newNode(TextNode)
	n.data = data
	return n
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(data string) *Node {
	n := d.newNode(CommentNode)
	n.data = data
	return n
}

// CreateFragment creates an empty document fragment. Inserting a fragment
// moves its children, leaving it empty.
func (d *Document) CreateFragment() *Node {
	return d.newNode(FragmentNode)
}

func (d *Document) newElement(tag, ns string) *Node {
	n := d.newNode(ElementNode)
	n.tag = tag
	n.ns = ns
	return n
}

func (d *Document) newNode(typ NodeType) *Node {
	d.nextID++
	return &Node{id: d.nextID, typ: typ, doc: d}
}

// connect marks n's subtree as part of the document tree.
func (d *Document) connect(n *Node) {
	n.connected = true
	d.nodes[n.id] = n
	for c := n.firstChild; c != nil; c = c.next {
		d.connect(c)
	}
}

// disconnect removes n's subtree from the document tree.
func (d *Document) disconnect(n *Node) {
	n.connected = false
	delete(d.nodes, n.id)
	for c := n.firstChild; c != nil; c = c.next {
		d.disconnect(c)
	}
}

// Len returns the number of connected nodes.
func (d *Document) Len() int { return len(d.nodes) }
