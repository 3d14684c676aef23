package dom

// AppendChild inserts child as the last child of n. See InsertBefore.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child into n immediately before ref, or at the end
// when ref is nil.
//
// A child that already has a parent is moved. A fragment is emptied: its
// children are inserted in order and the fragment itself is not.
func (n *Node) InsertBefore(child, ref *Node) error {
	if err := n.checkInsert(child, ref); err != nil {
		return err
	}
	if child == ref {
		return nil
	}

	if child.typ == FragmentNode {
		for _, c := range child.ChildNodes() {
			if err := n.InsertBefore(c, ref); err != nil {
				return err
			}
		}
		return nil
	}

	if child.parent != nil {
		child.parent.unlink(child)
	}
	n.link(child, ref)
	n.doc.emit(Mutation{Op: MutationInsert, Target: n, Node: child, Before: ref})
	child.fireAttach()
	return nil
}

func (n *Node) checkInsert(child, ref *Node) error {
	if child == nil {
		return hierarchyError("cannot insert a nil node")
	}
	if n.typ != ElementNode && n.typ != FragmentNode {
		return hierarchyError("%s node %d cannot have children", n.typ, n.id)
	}
	if child.doc != n.doc {
		return hierarchyError("node %d belongs to another document", child.id)
	}
	if child.Contains(n) {
		return hierarchyError("node %d cannot be inserted into its own subtree", child.id)
	}
	if ref != nil && ref.parent != n {
		return notFoundError("reference node %d is not a child of node %d", ref.id, n.id)
	}
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return notFoundError("node is not a child of node %d", n.id)
	}
	n.unlink(child)
	return nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.unlink(n)
	}
}

// ReplaceChildren removes every child of n and then appends nodes in order.
func (n *Node) ReplaceChildren(nodes ...*Node) error {
	for _, c := range nodes {
		if err := n.checkInsert(c, nil); err != nil {
			return err
		}
	}
	for n.lastChild != nil {
		n.unlink(n.lastChild)
	}
	for _, c := range nodes {
		if err := n.AppendChild(c); err != nil {
			return err
		}
	}
	return nil
}

// link inserts an unparented child before ref.
func (n *Node) link(child, ref *Node) {
	child.parent = n
	if ref == nil {
		child.prev = n.lastChild
		child.next = nil
		if n.lastChild != nil {
			n.lastChild.next = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
	} else {
		child.prev = ref.prev
		child.next = ref
		if ref.prev != nil {
			ref.prev.next = child
		} else {
			n.firstChild = child
		}
		ref.prev = child
	}
	n.childCount++

	if n.connected && !child.connected {
		n.doc.connect(child)
	}
}

// unlink detaches child from n and reports the removal.
func (n *Node) unlink(child *Node) {
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.firstChild = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.lastChild = child.prev
	}
	child.parent = nil
	child.prev = nil
	child.next = nil
	n.childCount--

	n.doc.emit(Mutation{Op: MutationRemove, Target: n, Node: child})
	if child.connected {
		n.doc.disconnect(child)
	}
}
