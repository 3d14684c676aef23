package demo

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
	"github.com/vango-dev/fuse/pkg/fusetest"
	"github.com/vango-dev/fuse/pkg/router"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		app, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, app.Name)
		assert.NotNil(t, app.Build)
	}

	_, err := Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fuseerrors.New("E140")))

	var fe *fuseerrors.FuseError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Suggestion, "counter")
}

func TestAppsReturnsCopy(t *testing.T) {
	a := Apps()
	a[0].Name = "changed"
	assert.Equal(t, "counter", Apps()[0].Name)
}

func TestCounter(t *testing.T) {
	h := fusetest.Mount(t, Counter)

	fusetest.ExpectContains(t, h.Container, "Count: 0")
	fusetest.ExpectContains(t, h.Container, "Doubled: 0")
	fusetest.ExpectContains(t, h.Container, `<button id="dec" disabled="">`)

	inc := h.FindByID("inc")
	for i := 0; i < 3; i++ {
		h.Click(inc)
	}
	fusetest.ExpectContains(t, h.Container, "Count: 3")
	fusetest.ExpectContains(t, h.Container, "Doubled: 6")
	fusetest.ExpectContains(t, h.Container, `<button id="dec">`)

	h.Click(h.FindByID("dec"))
	fusetest.ExpectContains(t, h.Container, "Count: 2")
	assert.Empty(t, h.Errors())
}

func TestCounterBadgeIsReused(t *testing.T) {
	h := fusetest.Mount(t, Counter)
	inc := h.FindByID("inc")

	for i := 0; i < BigCount; i++ {
		h.Click(inc)
	}
	badge := h.Find("span")
	require.NotNil(t, badge)
	fusetest.ExpectContains(t, badge, "big")

	h.Click(inc)
	assert.Same(t, badge, h.Find("span"), "cached badge node is kept across re-runs")

	h.Click(h.FindByID("reset"))
	assert.Nil(t, h.Find("span"))
	fusetest.ExpectContains(t, h.Container, "Count: 0")
}

func addTodo(h *fusetest.Harness, title string) {
	h.Input(h.FindByID("new-todo"), title)
	h.Submit(h.FindByID("new-todo-form"))
}

func TestTodoAddToggleRemove(t *testing.T) {
	h := fusetest.Mount(t, TodoList)
	footer := h.Find("footer")
	assert.True(t, footer.HasAttribute("hidden"))

	addTodo(h, "Buy milk")
	addTodo(h, "  ")
	addTodo(h, "Walk dog")

	items := h.FindAll("li")
	require.Len(t, items, 2)
	fusetest.ExpectContains(t, items[0], "Buy milk")
	fusetest.ExpectContains(t, items[1], "Walk dog")
	assert.False(t, footer.HasAttribute("hidden"))
	fusetest.ExpectContains(t, h.FindByID("todo-count"), "2 items left")

	// The draft is cleared after a successful add.
	v, _ := h.FindByID("new-todo").Property("value")
	assert.Equal(t, "", v)

	h.Dispatch(items[0].FirstChild(), "change")
	after := h.FindAll("li")
	require.Len(t, after, 2)
	assert.Same(t, items[0], after[0], "toggling updates the row in place")
	cls, _ := after[0].GetAttribute("class")
	assert.Equal(t, "todo completed", cls)
	checked, _ := after[0].FirstChild().Property("checked")
	assert.Equal(t, true, checked)
	fusetest.ExpectContains(t, h.FindByID("todo-count"), "1 item left")

	h.Click(h.Find("li").LastChild())
	require.Len(t, h.FindAll("li"), 1)
	fusetest.ExpectContains(t, h.Container, "Walk dog")
	fusetest.ExpectNotContains(t, h.Container, "Buy milk")
	assert.Empty(t, h.Errors())
}

func TestTodoFilters(t *testing.T) {
	h := fusetest.Mount(t, TodoList)
	addTodo(h, "a")
	addTodo(h, "b")
	addTodo(h, "c")
	h.Dispatch(h.FindAll("li")[1].FirstChild(), "change")

	h.Click(h.FindByID("filter-active"))
	assert.Len(t, h.FindAll("li"), 2)
	cls, _ := h.FindByID("filter-active").GetAttribute("class")
	assert.Equal(t, "filter selected", cls)

	h.Click(h.FindByID("filter-done"))
	done := h.FindAll("li")
	require.Len(t, done, 1)
	fusetest.ExpectContains(t, done[0], `<span class="title">b</span>`)

	h.Click(h.FindByID("clear-done"))
	assert.Empty(t, h.FindAll("li"))

	h.Click(h.FindByID("filter-all"))
	assert.Len(t, h.FindAll("li"), 2)
}

func TestTodoEscapeClearsDraft(t *testing.T) {
	h := fusetest.Mount(t, TodoList)
	input := h.FindByID("new-todo")
	h.Input(input, "half typed")
	h.KeyDown(input, "Escape")

	v, _ := input.Property("value")
	assert.Equal(t, "", v)
}

func TestGenerateLog(t *testing.T) {
	lines := GenerateLog(10, 3)
	require.Len(t, lines, 3)
	assert.Equal(t, 10, lines[0].Seq)
	assert.Equal(t, 12, lines[2].Seq)
	assert.Equal(t, GenerateLog(10, 3), lines, "generation is deterministic")
}

func rowCount(h *fusetest.Harness) int {
	n := 0
	for _, div := range h.FindAll("div") {
		if cls, ok := div.GetAttribute("class"); ok && len(cls) > 4 && cls[:5] == "line " {
			n++
		}
	}
	return n
}

func TestVirtualLogWindow(t *testing.T) {
	h := fusetest.Mount(t, VirtualLog)

	// 400px viewport / 20px rows = 20 rows, plus 5 overscan below row 20.
	assert.Equal(t, 26, rowCount(h))
	fusetest.ExpectContains(t, h.FindByID("log-status"), "10,000 lines, showing 0-25")

	viewport := h.FindByID("log-viewport")
	require.NotNil(t, viewport)
	require.NoError(t, viewport.SetProperty("scrollTop", float64(2000)))
	h.Dispatch(viewport, "scroll")

	assert.Equal(t, 31, rowCount(h))
	fusetest.ExpectContains(t, h.FindByID("log-status"), "showing 95-125")
	fusetest.ExpectContains(t, h.Container, "000100 ")

	h.Click(h.FindByID("append"))
	fusetest.ExpectContains(t, h.FindByID("log-status"), "11,000 lines")
	assert.Empty(t, h.Errors())
}

func TestPagesNavigation(t *testing.T) {
	h := fusetest.Mount(t, Pages)
	nav := router.From(h.R)
	require.NotNil(t, nav)

	fusetest.ExpectContains(t, h.Container, "<h1>Home</h1>")
	fusetest.ExpectAttribute(t, h.FindByID("nav-home"), "class", "active")

	h.Click(h.FindByID("nav-people"))
	assert.Equal(t, "/people", nav.URL())
	fusetest.ExpectContains(t, h.Container, "Grace Hopper")
	fusetest.ExpectAttribute(t, h.FindByID("nav-people"), "class", "active")
	fusetest.ExpectAttribute(t, h.FindByID("nav-home"), "class", "")

	h.Click(h.FindByID("person-2"))
	assert.Equal(t, "/people/2", nav.URL())
	fusetest.ExpectContains(t, h.FindByID("person"), "Grace Hopper")
	fusetest.ExpectContains(t, h.Container, "compiler author")

	h.Click(h.FindByID("back"))
	assert.Equal(t, "/people", nav.URL())
	assert.Nil(t, h.FindByID("person"))
	assert.Empty(t, h.Errors())
}

func TestPagesUnknownPerson(t *testing.T) {
	h := fusetest.Mount(t, Pages)
	nav := router.From(h.R)

	require.NoError(t, nav.Navigate("/people/99"))
	fusetest.ExpectContains(t, h.FindByID("person"), "No such person")

	require.NoError(t, nav.Navigate("/people/abc"))
	fusetest.ExpectContains(t, h.FindByID("person"), "No such person")
}

func TestPagesNotFoundAndGuard(t *testing.T) {
	h := fusetest.Mount(t, Pages)
	nav := router.From(h.R)

	require.NoError(t, nav.Navigate("/nowhere"))
	fusetest.ExpectContains(t, h.FindByID("not-found"), "No page at /nowhere")

	require.NoError(t, nav.Navigate("/about"))
	assert.Nil(t, h.FindByID("not-found"))

	require.NoError(t, nav.Navigate("/admin/users"))
	assert.Equal(t, "/?denied=admin", nav.URL())
	require.NotNil(t, h.FindByID("denied"))
}

func TestPeopleAPI(t *testing.T) {
	out, ok := PeopleAPI.Handle(http.MethodGet, "/people/3", nil)
	require.True(t, ok)
	assert.Equal(t, "Ken Thompson", out.(Person).Name)

	out, ok = PeopleAPI.Handle(http.MethodGet, "/people", nil)
	require.True(t, ok)
	assert.Len(t, out.([]Person), len(people))
}
