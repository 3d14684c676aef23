package live

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/router"
)

func TestDecodeClientFrame(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"event", `{"t":"event","id":3,"type":"click"}`, false},
		{"event with value", `{"t":"event","id":3,"type":"input","value":"x","checked":true}`, false},
		{"not json", `{`, true},
		{"missing id", `{"t":"event","type":"click"}`, true},
		{"missing type", `{"t":"event","id":3}`, true},
		{"unknown frame", `{"t":"resync"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeClientFrame([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedFrame))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(3), f.ID)
		})
	}
}

func TestDecodeNavigateFrame(t *testing.T) {
	f, err := DecodeClientFrame([]byte(`{"t":"navigate","url":"/users/1?tab=a"}`))
	require.NoError(t, err)
	assert.Equal(t, FrameNavigate, f.T)
	assert.Equal(t, "/users/1?tab=a", f.URL)

	_, err = DecodeClientFrame([]byte(`{"t":"navigate"}`))
	assert.True(t, errors.Is(err, ErrMalformedFrame))
}

func TestNavigateFrame(t *testing.T) {
	f := navigateFrame(router.Navigation{URL: "/a", Delta: -1})
	assert.Equal(t, ServerFrame{T: FrameNavigate, URL: "/a", Delta: -1}, f)
}

func TestDecodeClientFrameOptionalFields(t *testing.T) {
	f, err := DecodeClientFrame([]byte(`{"t":"event","id":3,"type":"scroll","scrollTop":120.5}`))
	require.NoError(t, err)
	assert.Nil(t, f.Value)
	assert.Nil(t, f.Checked)
	require.NotNil(t, f.ScrollTop)
	assert.Equal(t, 120.5, *f.ScrollTop)
}

func TestSnapshot(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("class", "box")
	require.NoError(t, div.SetProperty("value", "v"))
	div.AppendChild(doc.CreateTextNode("hi"))
	svg := doc.CreateElementNS(dom.SVGNamespace, "svg")
	div.AppendChild(svg)

	s := Snapshot(div)
	assert.Equal(t, div.ID(), s.ID)
	assert.Equal(t, "element", s.Type)
	assert.Equal(t, "div", s.Tag)
	assert.Equal(t, map[string]string{"class": "box"}, s.Attrs)
	assert.Equal(t, map[string]any{"value": "v"}, s.Props)
	require.Len(t, s.Children, 2)
	assert.Equal(t, "text", s.Children[0].Type)
	assert.Equal(t, "hi", s.Children[0].Data)
	assert.Equal(t, "svg", s.Children[1].NS)
}

func TestEncodeMutation(t *testing.T) {
	doc := dom.NewDocument()
	var ops []Op
	stop := doc.Observe(func(m dom.Mutation) { ops = append(ops, EncodeMutation(m)) })
	defer stop()

	body := doc.Body()
	a := doc.CreateElement("p")
	a.AppendChild(doc.CreateTextNode("one"))
	b := doc.CreateElement("p")
	ops = nil

	require.NoError(t, body.AppendChild(a))
	require.NoError(t, body.InsertBefore(b, a))
	a.SetAttribute("title", "t")
	a.RemoveAttribute("title")
	b.Remove()

	require.Len(t, ops, 5)

	assert.Equal(t, "Insert", ops[0].Op)
	assert.Equal(t, body.ID(), ops[0].Target)
	require.NotNil(t, ops[0].Node)
	assert.Equal(t, "one", ops[0].Node.Children[0].Data, "inserted subtree is snapshotted")
	assert.Zero(t, ops[0].Before)

	assert.Equal(t, "Insert", ops[1].Op)
	assert.Equal(t, a.ID(), ops[1].Before)

	assert.Equal(t, Op{Op: "SetAttr", Target: a.ID(), Name: "title", Value: "t"}, ops[2])
	assert.Equal(t, Op{Op: "RemoveAttr", Target: a.ID(), Name: "title"}, ops[3])

	assert.Equal(t, "Remove", ops[4].Op)
	assert.Equal(t, b.ID(), ops[4].Node.ID)
}

type stringer struct{}

func (stringer) String() string { return "str" }

func TestWireValue(t *testing.T) {
	assert.Equal(t, true, wireValue(true))
	assert.Equal(t, 3, wireValue(3))
	assert.Equal(t, "str", wireValue(stringer{}))
	assert.Equal(t, "[1 2]", wireValue([]int{1, 2}))
	assert.Nil(t, wireValue(nil))
}

func TestErrorFrameCarriesCode(t *testing.T) {
	f := errorFrame(ErrUnknownTarget)
	assert.Equal(t, FrameError, f.T)
	assert.Equal(t, "E061", f.Code)

	f = errorFrame(errors.New("plain"))
	assert.Empty(t, f.Code)
	assert.Equal(t, "plain", f.Msg)
}
