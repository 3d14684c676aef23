package virtual

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func newList(t *testing.T, items []int) (*List[int], *render.Renderer) {
	t.Helper()
	doc := dom.NewDocument()
	r := render.New(doc, reactive.NewRuntime())
	l := New(r, Options[int]{
		Items: items,
		RenderItem: func(n, _ int) *dom.Node {
			return r.El("span", strconv.Itoa(n))
		},
		ItemHeight:      10,
		ContainerHeight: 50,
	})
	return l, r
}

func rowElements(content *dom.Node) []*dom.Node {
	var out []*dom.Node
	for _, c := range content.ChildNodes() {
		if c.Type() == dom.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func TestVisibleRange(t *testing.T) {
	l, _ := newList(t, numbers(100))

	assert.Equal(t, Range{Start: 0, End: 10}, l.VisibleRange())

	l.ScrollTop().Set(200)
	rng := l.VisibleRange()
	assert.Equal(t, Range{Start: 15, End: 30}, rng)
	assert.Equal(t, 16, rng.Len())

	l.ScrollTop().Set(995)
	assert.Equal(t, 99, l.VisibleRange().End, "clamped to the last item")
}

func TestVisibleItemsOffsets(t *testing.T) {
	l, _ := newList(t, numbers(100))
	l.ScrollTop().Set(200)

	items := l.VisibleItems()
	require.Len(t, items, 16)
	assert.Equal(t, Visible[int]{Item: 15, Index: 15, OffsetY: 150}, items[0])
	assert.Equal(t, 300, items[15].OffsetY)
}

func TestEmptyList(t *testing.T) {
	l, _ := newList(t, nil)

	assert.Equal(t, 0, l.VisibleRange().Len())
	assert.Empty(t, l.VisibleItems())
	assert.Equal(t, 0, l.TotalHeight())
}

func TestTotalHeight(t *testing.T) {
	l, _ := newList(t, numbers(42))
	assert.Equal(t, 420, l.TotalHeight())
}

func TestOverscanDefaults(t *testing.T) {
	doc := dom.NewDocument()
	r := render.New(doc, reactive.NewRuntime())

	none := New(r, Options[int]{Items: numbers(100), ItemHeight: 10, ContainerHeight: 50, Overscan: -1})
	assert.Equal(t, Range{Start: 0, End: 5}, none.VisibleRange())

	two := New(r, Options[int]{Items: numbers(100), ItemHeight: 10, ContainerHeight: 50, Overscan: 2})
	two.ScrollTop().Set(100)
	assert.Equal(t, Range{Start: 8, End: 17}, two.VisibleRange())
}

func TestHandleScrollSources(t *testing.T) {
	l, r := newList(t, numbers(100))
	target := r.Document().CreateElement("div")

	require.NoError(t, target.SetProperty("scrollTop", 120.0))
	ev := dom.NewEvent("scroll")
	ev.Target = target
	l.HandleScroll(ev)
	assert.Equal(t, 120, l.ScrollTop().Peek())

	l.HandleScroll(&dom.Event{Type: "scroll", Value: "64.5"})
	assert.Equal(t, 64, l.ScrollTop().Peek())

	l.HandleScroll(&dom.Event{Type: "scroll", Value: "junk"})
	assert.Equal(t, 64, l.ScrollTop().Peek(), "unparseable offsets are ignored")
}

func TestRenderWindowFollowsScroll(t *testing.T) {
	l, r := newList(t, numbers(100))
	doc := r.Document()

	box := l.Render()
	require.NoError(t, doc.Body().AppendChild(box))
	content := box.FirstChild()

	style, _ := content.GetAttribute("style")
	assert.Contains(t, style, "height: 1000px")

	rows := rowElements(content)
	require.Len(t, rows, 11)
	assert.Equal(t, "0", rows[0].TextContent())
	top, _ := rows[3].GetAttribute("style")
	assert.Contains(t, top, "top: 30px")

	require.NoError(t, box.SetProperty("scrollTop", 20))
	box.DispatchEvent(dom.NewEvent("scroll"))

	after := rowElements(content)
	require.Len(t, after, 13)
	for i := range rows {
		assert.Same(t, rows[i], after[i], "rows still in view keep their nodes")
	}

	require.NoError(t, box.SetProperty("scrollTop", 200))
	box.DispatchEvent(dom.NewEvent("scroll"))
	after = rowElements(content)
	require.Len(t, after, 16)
	assert.Equal(t, "15", after[0].TextContent())
}

func TestRenderRebuildsChangedRow(t *testing.T) {
	doc := dom.NewDocument()
	rt := reactive.NewRuntime()
	r := render.New(doc, rt)
	items := reactive.NewSignal(rt, []string{"a", "b"})

	l := New(r, Options[string]{
		ItemsFunc:       items.Get,
		RenderItem:      func(s string, _ int) *dom.Node { return r.El("b", s) },
		ItemHeight:      20,
		ContainerHeight: 100,
	})
	box := l.Render()
	require.NoError(t, doc.Body().AppendChild(box))
	content := box.FirstChild()
	first := rowElements(content)[0]

	items.Set([]string{"z", "b", "c"})

	rows := rowElements(content)
	require.Len(t, rows, 3)
	assert.Same(t, first, rows[0])
	assert.Equal(t, "z", rows[0].TextContent())
	style, _ := content.GetAttribute("style")
	assert.Contains(t, style, "height: 60px")
}
