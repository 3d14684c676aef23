package dom

// Event is dispatched to listeners on a node and its ancestors.
type Event struct {
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	// Value carries the control value for input and change events.
	Value string

	// Detail carries arbitrary data for custom events.
	Detail any

	stopped   bool
	prevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from reaching further ancestors.
// Remaining listeners on the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Listener handles an event.
type Listener func(*Event)

type listener struct {
	fn Listener
}

// AddEventListener registers fn for events of type typ on n. The returned
// function removes the listener; calling it twice is harmless.
func (n *Node) AddEventListener(typ string, fn Listener) (remove func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)
	return func() {
		ls := n.listeners[typ]
		for i, x := range ls {
			if x == l {
				n.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
				if len(n.listeners[typ]) == 0 {
					delete(n.listeners, typ)
				}
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners for typ on n.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent delivers ev to n and then to each ancestor, stopping early
// if a listener calls StopPropagation. It reports false if a listener
// called PreventDefault.
func (n *Node) DispatchEvent(ev *Event) bool {
	ev.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		ls := cur.listeners[ev.Type]
		if len(ls) > 0 {
			ev.CurrentTarget = cur
			snapshot := make([]*listener, len(ls))
			copy(snapshot, ls)
			for _, l := range snapshot {
				l.fn(ev)
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.prevented
}
