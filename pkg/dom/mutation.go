package dom

import "fmt"

// MutationOp is the type of tree change.
type MutationOp uint8

const (
	MutationSetText    MutationOp = 0x01 // Text or comment data changed
	MutationSetAttr    MutationOp = 0x02 // Attribute set
	MutationRemoveAttr MutationOp = 0x03 // Attribute removed
	MutationInsert     MutationOp = 0x04 // Node inserted into a parent
	MutationRemove     MutationOp = 0x05 // Node removed from a parent
	MutationSetProp    MutationOp = 0x08 // Live property (value, checked, ...) set
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutationSetText:
		return "SetText"
	case MutationSetAttr:
		return "SetAttr"
	case MutationRemoveAttr:
		return "RemoveAttr"
	case MutationInsert:
		return "Insert"
	case MutationRemove:
		return "Remove"
	case MutationSetProp:
		return "SetProp"
	default:
		return "Unknown"
	}
}

// Mutation describes a single change to the tree.
type Mutation struct {
	Op MutationOp

	// Target is the node whose attribute, property or text changed, or the
	// parent for Insert and Remove.
	Target *Node

	// Node is the inserted or removed child.
	Node *Node

	// Before is the reference sibling for Insert; nil means append.
	Before *Node

	// Name is the attribute or property name.
	Name string

	// Value is the new attribute value, text data, or property value.
	Value any

	// Connected reports whether Target was part of the document tree when
	// the change happened.
	Connected bool
}

// String renders the mutation for logs and test failures.
func (m Mutation) String() string {
	switch m.Op {
	case MutationInsert, MutationRemove:
		return fmt.Sprintf("%s(parent=%d node=%d)", m.Op, m.Target.ID(), m.Node.ID())
	case MutationSetText:
		return fmt.Sprintf("%s(node=%d %q)", m.Op, m.Target.ID(), m.Value)
	default:
		return fmt.Sprintf("%s(node=%d %s=%v)", m.Op, m.Target.ID(), m.Name, m.Value)
	}
}

// Observer receives every mutation made to a document.
type Observer func(Mutation)

type observerEntry struct {
	fn Observer
}

// Observe registers fn for all future mutations. The returned function
// unregisters it.
func (d *Document) Observe(fn Observer) (stop func()) {
	entry := &observerEntry{fn: fn}
	d.observers = append(d.observers, entry)
	return func() {
		for i, e := range d.observers {
			if e == entry {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) emit(m Mutation) {
	if len(d.observers) == 0 {
		return
	}
	m.Connected = m.Target.connected
	for _, e := range d.observers {
		e.fn(m)
	}
}
