package live

import (
	"encoding/json"
	"errors"
	"fmt"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/router"
)

// Frame types exchanged with the browser client.
const (
	FrameInit  = "init"
	FramePatch = "patch"
	FrameEvent = "event"
	FrameError = "error"

	// FrameNavigate goes both ways: the server sends it after a router
	// navigation so the browser updates its history, and the client
	// sends it when the browser moved through its history on its own.
	FrameNavigate = "navigate"
)

// ErrMalformedFrame is returned when a client frame cannot be decoded.
var ErrMalformedFrame = fuseerrors.New("E060")

// ErrUnknownTarget is reported when an event names a node that is not
// connected to the session document.
var ErrUnknownTarget = fuseerrors.New("E061")

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = fuseerrors.New("E062")

// NodeJSON is the wire snapshot of a node and its subtree.
type NodeJSON struct {
	ID       uint64            `json:"id"`
	Type     string            `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	NS       string            `json:"ns,omitempty"`
	Data     string            `json:"data,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Props    map[string]any    `json:"props,omitempty"`
	Children []*NodeJSON       `json:"children,omitempty"`
}

// Snapshot converts n and its descendants to their wire form.
func Snapshot(n *dom.Node) *NodeJSON {
	out := &NodeJSON{ID: n.ID()}
	switch n.Type() {
	case dom.TextNode:
		out.Type = "text"
		out.Data = n.Data()
		return out
	case dom.CommentNode:
		out.Type = "comment"
		out.Data = n.Data()
		return out
	case dom.FragmentNode:
		out.Type = "fragment"
	default:
		out.Type = "element"
		out.Tag = n.Tag()
		if n.IsSVG() {
			out.NS = "svg"
		}
	}

	if attrs := n.Attributes(); len(attrs) > 0 {
		out.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			out.Attrs[a.Name] = a.Value
		}
	}
	if props := n.Properties(); len(props) > 0 {
		out.Props = make(map[string]any, len(props))
		for k, v := range props {
			out.Props[k] = wireValue(v)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out.Children = append(out.Children, Snapshot(c))
	}
	return out
}

// Op is the wire form of a dom.Mutation.
type Op struct {
	Op     string    `json:"op"`
	Target uint64    `json:"target"`
	Node   *NodeJSON `json:"node,omitempty"`
	Before uint64    `json:"before,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  any       `json:"value"`
}

// EncodeMutation converts m to its wire form. Inserted subtrees are
// snapshotted at the time of the call.
func EncodeMutation(m dom.Mutation) Op {
	op := Op{
		Op:     m.Op.String(),
		Target: m.Target.ID(),
		Name:   m.Name,
	}
	switch m.Op {
	case dom.MutationInsert:
		op.Node = Snapshot(m.Node)
		if m.Before != nil {
			op.Before = m.Before.ID()
		}
	case dom.MutationRemove:
		op.Node = &NodeJSON{ID: m.Node.ID()}
	case dom.MutationRemoveAttr:
	default:
		op.Value = wireValue(m.Value)
	}
	return op
}

// wireValue keeps JSON scalars and stringifies anything else.
func wireValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ServerFrame is a frame sent to the client.
type ServerFrame struct {
	T    string    `json:"t"`
	Tree *NodeJSON `json:"tree,omitempty"`
	Ops  []Op      `json:"ops,omitempty"`
	Code string    `json:"code,omitempty"`
	Msg  string    `json:"msg,omitempty"`

	// Navigation fields.
	URL     string `json:"url,omitempty"`
	Replace bool   `json:"replace,omitempty"`
	Delta   int    `json:"delta,omitempty"`
}

// ClientFrame is a frame received from the client.
type ClientFrame struct {
	T         string   `json:"t"`
	ID        uint64   `json:"id"`
	Type      string   `json:"type"`
	Value     *string  `json:"value,omitempty"`
	Checked   *bool    `json:"checked,omitempty"`
	Key       string   `json:"key,omitempty"`
	ScrollTop *float64 `json:"scrollTop,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// DecodeClientFrame parses and validates a client frame.
func DecodeClientFrame(data []byte) (*ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fuseerrors.New("E060").Wrap(err)
	}
	switch f.T {
	case FrameEvent:
		if f.ID == 0 || f.Type == "" {
			return nil, fuseerrors.New("E060").
				WithDetail("event frames need a target id and an event type")
		}
	case FrameNavigate:
		if f.URL == "" {
			return nil, fuseerrors.New("E060").
				WithDetail("navigate frames need a url")
		}
	default:
		return nil, fuseerrors.New("E060").
			WithDetail(fmt.Sprintf("unknown frame type %q", f.T))
	}
	return &f, nil
}

func navigateFrame(n router.Navigation) ServerFrame {
	return ServerFrame{T: FrameNavigate, URL: n.URL, Replace: n.Replace, Delta: n.Delta}
}

func errorFrame(err error) ServerFrame {
	f := ServerFrame{T: FrameError, Msg: err.Error()}
	var fe *fuseerrors.FuseError
	if errors.As(err, &fe) {
		f.Code = fe.Code
	}
	return f
}
