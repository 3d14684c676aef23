package live

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/middleware"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
	"github.com/vango-dev/fuse/pkg/router"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func counterApp(r *render.Renderer) render.Child {
	count := reactive.NewSignal(r.Runtime(), 0)
	return render.NodeChild(r.El("div",
		r.El("button", render.ID("inc"), render.OnClick(func(*dom.Event) {
			count.Update(func(n int) int { return n + 1 })
		}), "+"),
		r.El("span", render.ID("count"), render.TextFunc(func() string {
			return strconv.Itoa(count.Get())
		})),
	))
}

func echoApp(r *render.Renderer) render.Child {
	text := reactive.NewSignal(r.Runtime(), "")
	return render.NodeChild(r.El("div",
		r.El("input", render.ID("field"), render.OnInput(func(ev *dom.Event) {
			text.Set(ev.Value)
		})),
		r.El("p", render.TextFunc(text.Get)),
	))
}

func routedApp(r *render.Renderer) render.Child {
	nav := router.From(r)
	return render.List(
		render.NodeChild(nav.Link(r, "/about", render.ID("about-link"), "About")),
		nav.Route("/about", func(router.Params) render.Child {
			return render.NodeChild(r.El("h1", render.ID("about"), "About page"))
		}),
	)
}

func startServer(t *testing.T, app App, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(app, opts...)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	return dialAt(t, ts, "")
}

// dialAt opens a session whose page location is page.
func dialAt(t *testing.T, ts *httptest.Server, page string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SocketPath
	if page != "" {
		url += "?url=" + neturl.QueryEscape(page)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) ServerFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f ServerFrame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func sendEvent(t *testing.T, conn *websocket.Conn, frame map[string]any) {
	t.Helper()
	frame["t"] = FrameEvent
	require.NoError(t, conn.WriteJSON(frame))
}

func findByID(n *NodeJSON, id string) *NodeJSON {
	if n.Attrs["id"] == id {
		return n
	}
	for _, c := range n.Children {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func insertedText(ops []Op) []string {
	var out []string
	for _, op := range ops {
		if op.Op == "Insert" && op.Node != nil && op.Node.Type == "text" && op.Node.Data != "" {
			out = append(out, op.Node.Data)
		}
	}
	return out
}

func TestSessionInitAndPatch(t *testing.T) {
	srv, ts := startServer(t, counterApp)
	conn := dial(t, ts)

	init := readFrame(t, conn)
	require.Equal(t, FrameInit, init.T)
	require.NotNil(t, init.Tree)
	assert.Equal(t, "body", init.Tree.Tag)

	button := findByID(init.Tree, "inc")
	require.NotNil(t, button)
	span := findByID(init.Tree, "count")
	require.NotNil(t, span)

	sendEvent(t, conn, map[string]any{"id": button.ID, "type": "click"})
	patch := readFrame(t, conn)
	require.Equal(t, FramePatch, patch.T)
	assert.Equal(t, []string{"1"}, insertedText(patch.Ops))
	for _, op := range patch.Ops {
		assert.Equal(t, span.ID, op.Target, "only the counter text changes")
	}

	sendEvent(t, conn, map[string]any{"id": button.ID, "type": "click"})
	patch = readFrame(t, conn)
	assert.Equal(t, []string{"2"}, insertedText(patch.Ops))
	assert.Equal(t, 1, srv.SessionCount())
}

func TestSessionsAreIsolated(t *testing.T) {
	_, ts := startServer(t, counterApp)
	a := dial(t, ts)
	b := dial(t, ts)

	treeA := readFrame(t, a).Tree
	readFrame(t, b)

	sendEvent(t, a, map[string]any{"id": findByID(treeA, "inc").ID, "type": "click"})
	assert.Equal(t, []string{"1"}, insertedText(readFrame(t, a).Ops))

	// A fresh session starts from zero.
	c := dial(t, ts)
	treeC := readFrame(t, c).Tree
	span := findByID(treeC, "count")
	require.NotNil(t, span)
	require.NotEmpty(t, span.Children)
	assert.Equal(t, "0", span.Children[0].Data)
}

func TestInputValueSyncIsNotEchoed(t *testing.T) {
	_, ts := startServer(t, echoApp)
	conn := dial(t, ts)
	field := findByID(readFrame(t, conn).Tree, "field")
	require.NotNil(t, field)

	sendEvent(t, conn, map[string]any{"id": field.ID, "type": "input", "value": "hi"})
	patch := readFrame(t, conn)
	assert.Equal(t, []string{"hi"}, insertedText(patch.Ops))
	for _, op := range patch.Ops {
		assert.NotEqual(t, "SetProp", op.Op)
	}
}

func TestUnknownTargetReportsError(t *testing.T) {
	_, ts := startServer(t, counterApp)
	conn := dial(t, ts)
	readFrame(t, conn)

	sendEvent(t, conn, map[string]any{"id": 999999, "type": "click"})
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.T)
	assert.Equal(t, "E061", f.Code)
}

func TestMalformedFrameReportsError(t *testing.T) {
	_, ts := startServer(t, counterApp)
	conn := dial(t, ts)
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.T)
	assert.Equal(t, "E060", f.Code)

	// The session keeps serving after a bad frame.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"event","id":0}`)))
	assert.Equal(t, "E060", readFrame(t, conn).Code)
}

func TestHandlerPanicIsReported(t *testing.T) {
	app := func(r *render.Renderer) render.Child {
		return render.NodeChild(r.El("button", render.ID("boom"), render.OnClick(func(*dom.Event) {
			panic("kaboom")
		})))
	}
	_, ts := startServer(t, app)
	conn := dial(t, ts)
	button := findByID(readFrame(t, conn).Tree, "boom")

	sendEvent(t, conn, map[string]any{"id": button.ID, "type": "click"})
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.T)
	assert.Contains(t, f.Msg, "kaboom")
}

func TestShellClientAndHealth(t *testing.T) {
	_, ts := startServer(t, counterApp, WithConfig(&ServerConfig{Title: "Counter <demo>"}))
	client := ts.Client()

	get := func(path string) (int, string, string) {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
	}

	code, ctype, body := get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, ctype, "text/html")
	assert.Contains(t, body, "<title>Counter &lt;demo&gt;</title>")
	assert.NotContains(t, body, `id="count"`, "the body is built by the client")
	assert.Contains(t, body, `<script src="/_fuse/client.js"></script>`)

	code, ctype, body = get(ClientPath)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, ctype, "javascript")
	assert.Contains(t, body, "/_fuse/ws")

	code, _, body = get(HealthPath)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	_, ts := startServer(t, counterApp, WithMetrics(metrics, reg))

	conn := dial(t, ts)
	button := findByID(readFrame(t, conn).Tree, "inc")
	sendEvent(t, conn, map[string]any{"id": button.ID, "type": "click"})
	readFrame(t, conn)

	scrape := func() string {
		resp, err := ts.Client().Get(ts.URL + MetricsPath)
		if err != nil {
			return ""
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}
	assert.Eventually(t, func() bool {
		body := scrape()
		return strings.Contains(body, `fuse_live_frames_sent_total{type="patch"} 1`) &&
			strings.Contains(body, "fuse_live_sessions 1") &&
			strings.Contains(body, `fuse_dom_mutations_total{op="Insert"}`)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestTracingDoesNotDisturbEvents(t *testing.T) {
	_, ts := startServer(t, counterApp, WithTracing(middleware.NewTracing()))
	conn := dial(t, ts)
	button := findByID(readFrame(t, conn).Tree, "inc")

	sendEvent(t, conn, map[string]any{"id": button.ID, "type": "click"})
	assert.Equal(t, []string{"1"}, insertedText(readFrame(t, conn).Ops))
}

func TestCloseEndsSessions(t *testing.T) {
	srv, ts := startServer(t, counterApp)
	conn := dial(t, ts)
	readFrame(t, conn)
	require.Equal(t, 1, srv.SessionCount())

	srv.Close()
	assert.Equal(t, 0, srv.SessionCount())

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestClientDisconnectEndsSession(t *testing.T) {
	srv, ts := startServer(t, counterApp)
	conn := dial(t, ts)
	readFrame(t, conn)

	conn.Close()
	assert.Eventually(t, func() bool { return srv.SessionCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestCrossOriginRejected(t *testing.T) {
	_, ts := startServer(t, counterApp)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SocketPath
	header := http.Header{"Origin": []string{"http://evil.example"}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLinkClickSendsNavigate(t *testing.T) {
	_, ts := startServer(t, routedApp)
	conn := dialAt(t, ts, "/start")

	init := readFrame(t, conn)
	require.Nil(t, findByID(init.Tree, "about"))
	link := findByID(init.Tree, "about-link")
	require.NotNil(t, link)
	assert.Equal(t, "true", link.Attrs["data-link"])

	sendEvent(t, conn, map[string]any{"id": link.ID, "type": "click"})
	patch := readFrame(t, conn)
	require.Equal(t, FramePatch, patch.T)
	var inserted bool
	for _, op := range patch.Ops {
		inserted = inserted || (op.Op == "Insert" && op.Node != nil && findByID(op.Node, "about") != nil)
	}
	assert.True(t, inserted, "the about route is inserted")

	nav := readFrame(t, conn)
	assert.Equal(t, FrameNavigate, nav.T)
	assert.Equal(t, "/about", nav.URL)
	assert.False(t, nav.Replace)

	// The browser goes back on its own.
	require.NoError(t, conn.WriteJSON(map[string]any{"t": FrameNavigate, "url": "/start"}))
	patch = readFrame(t, conn)
	require.Equal(t, FramePatch, patch.T)
	var removed bool
	for _, op := range patch.Ops {
		removed = removed || op.Op == "Remove"
	}
	assert.True(t, removed, "the about route is removed")

	// Nothing else follows: a synced location is not echoed back.
	sendEvent(t, conn, map[string]any{"id": 999999, "type": "click"})
	assert.Equal(t, FrameError, readFrame(t, conn).T)
}

func TestSessionStartsAtPageURL(t *testing.T) {
	_, ts := startServer(t, routedApp)
	conn := dialAt(t, ts, "/about/")

	init := readFrame(t, conn)
	about := findByID(init.Tree, "about")
	require.NotNil(t, about, "the route for the page URL is mounted before init")

	f := readFrame(t, conn)
	assert.Equal(t, FrameNavigate, f.T)
	assert.Equal(t, "/about", f.URL, "the browser URL is replaced by its canonical form")
	assert.True(t, f.Replace)
}

func TestNavigateFrameWithBadURL(t *testing.T) {
	_, ts := startServer(t, routedApp)
	conn := dial(t, ts)
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"t": FrameNavigate, "url": "https://evil.example"}))
	f := readFrame(t, conn)
	assert.Equal(t, FrameError, f.T)
	assert.Equal(t, "E080", f.Code)
}

func TestDeepLinkServesShellAndHandlers(t *testing.T) {
	api := router.NewAPI()
	api.Get("/users/:id", func(p, _ router.Params) any { return map[string]string{"id": p["id"]} })
	_, ts := startServer(t, routedApp, WithHandler("/api", api))

	resp, err := ts.Client().Get(ts.URL + "/users/42")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), ClientPath)

	resp, err = ts.Client().Get(ts.URL + "/api/users/7")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"7"}`, string(body))
}
