package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imyousuf/graphselect/internal/graph/embedded"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

const chainText = `Graph Nodes:
X;M;Y

Graph Edges:
1. X --> M
2. M --> Y
`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	store, err := embedded.NewInMemoryStore()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	ts := httptest.NewServer(New(store, opts...))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s status = %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func putChain(t *testing.T, ts *httptest.Server, name string) {
	t.Helper()
	expectStatus(t, do(t, http.MethodPut, ts.URL+"/v1/graphs/"+name+"?format=txt", chainText), http.StatusCreated)
}

func TestHealthAndTypes(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[map[string]string](t, resp)["status"]; got != "ok" {
		t.Errorf("status = %q, want ok", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/types", "")
	expectStatus(t, resp, http.StatusOK)
	types := decode[[]typeInfo](t, resp)
	if len(types) != len(selection.Types()) {
		t.Fatalf("types = %d, want %d", len(types), len(selection.Types()))
	}
	if types[0].Name != "Subgraph" || types[0].UsesN {
		t.Errorf("types[0] = %+v", types[0])
	}
}

func TestGraphLifecycle(t *testing.T) {
	ts := newTestServer(t)
	putChain(t, ts, "chain")

	resp := do(t, http.MethodGet, ts.URL+"/v1/graphs", "")
	expectStatus(t, resp, http.StatusOK)
	infos := decode[[]struct {
		Name      string `json:"name"`
		NodeCount int    `json:"node_count"`
		EdgeCount int    `json:"edge_count"`
	}](t, resp)
	if len(infos) != 1 || infos[0].Name != "chain" || infos[0].NodeCount != 3 || infos[0].EdgeCount != 2 {
		t.Errorf("list = %+v", infos)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/graphs/chain?format=txt", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if string(body) != chainText {
		t.Errorf("txt = %q, want %q", body, chainText)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/graphs/chain", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	expectStatus(t, do(t, http.MethodDelete, ts.URL+"/v1/graphs/chain", ""), http.StatusNoContent)
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/v1/graphs/chain", ""), http.StatusNotFound)
	expectStatus(t, do(t, http.MethodDelete, ts.URL+"/v1/graphs/chain", ""), http.StatusNotFound)
}

func TestPutGraphErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		url  string
		body string
	}{
		{"unknown format", "/v1/graphs/g?format=xls", chainText},
		{"malformed text", "/v1/graphs/g?format=txt", "Graph Edges:\n1. X --> Q\n"},
		{"empty json", "/v1/graphs/g", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, http.MethodPut, ts.URL+tt.url, tt.body), http.StatusBadRequest)
		})
	}
}

func TestSelect(t *testing.T) {
	ts := newTestServer(t)
	putChain(t, ts, "chain")

	resp := do(t, http.MethodPost, ts.URL+"/v1/select",
		`{"graphs":["chain"],"anchors":["X","Y"],"type":"Treks","n":1,"comparator":"equals"}`)
	expectStatus(t, resp, http.StatusOK)
	out := decode[selectResponse](t, resp)
	if out.Config != "Treks (length == 2)" {
		t.Errorf("config = %q", out.Config)
	}
	if len(out.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(out.Results))
	}
	res := out.Results[0]
	if res.Graph != "chain" || !slices.Equal(res.Highlighted, []string{"X", "Y"}) {
		t.Errorf("result = %s %v", res.Graph, res.Highlighted)
	}
	if len(res.Result.Edges) != 1 || res.Result.Edges[0].Node1 != "X" || res.Result.Edges[0].Node2 != "Y" {
		t.Errorf("edges = %+v, want one X --- Y", res.Result.Edges)
	}
}

func TestSelectErrors(t *testing.T) {
	ts := newTestServer(t, WithLimits(session.Limits{MaxPathLength: 8, LargeGraphNodes: 2}))
	putChain(t, ts, "chain")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown type", `{"graphs":["chain"],"type":"Cousins"}`, http.StatusBadRequest},
		{"negative n", `{"graphs":["chain"],"type":"Degree","n":-1}`, http.StatusBadRequest},
		{"unknown comparator", `{"graphs":["chain"],"comparator":"around"}`, http.StatusBadRequest},
		{"unknown field", `{"graphs":["chain"],"typ":"Paths"}`, http.StatusBadRequest},
		{"no graphs", `{"type":"Paths"}`, http.StatusBadRequest},
		{"missing graph", `{"graphs":["nope"]}`, http.StatusNotFound},
		{"path too long", `{"graphs":["chain"],"type":"Paths","n":8,"comparator":"atLeast"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/select", tt.body)
			expectStatus(t, resp, tt.want)
			if msg := decode[errorResponse](t, resp).Error; msg == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	putChain(t, ts, "chain")

	resp := do(t, http.MethodPost, ts.URL+"/v1/sessions", `{"graphs":["chain"],"anchors":["M"],"type":"Parents"}`)
	expectStatus(t, resp, http.StatusCreated)
	view := decode[sessionView](t, resp)
	if view.ID == "" || view.Version != 1 || view.Type != "Parents" {
		t.Fatalf("created = %+v", view)
	}
	base := ts.URL + "/v1/sessions/" + view.ID

	resp = do(t, http.MethodGet, base+"/results", "")
	expectStatus(t, resp, http.StatusOK)
	snap := decode[snapshotResponse](t, resp)
	if snap.Version != 1 || len(snap.Results) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := snap.Results[0].Result.Nodes; len(got) != 2 {
		t.Errorf("Parents of M nodes = %+v, want M and X", got)
	}

	resp = do(t, http.MethodPatch, base, `{"type":"Children","anchors":["M","Y"]}`)
	expectStatus(t, resp, http.StatusOK)
	view = decode[sessionView](t, resp)
	if view.Version != 2 || view.Type != "Children" || !slices.Equal(view.Anchors, []string{"M", "Y"}) {
		t.Errorf("updated = %+v", view)
	}

	expectStatus(t, do(t, http.MethodPatch, base, `{"n":-3}`), http.StatusBadRequest)
	resp = do(t, http.MethodGet, base, "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[sessionView](t, resp).Version; got != 2 {
		t.Errorf("version after rejected update = %d, want 2", got)
	}

	resp = do(t, http.MethodGet, base+"/render", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("echarts")) {
		t.Error("render output does not load echarts")
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/sessions", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]sessionView](t, resp); len(got) != 1 {
		t.Errorf("sessions = %d, want 1", len(got))
	}

	expectStatus(t, do(t, http.MethodDelete, base, ""), http.StatusNoContent)
	expectStatus(t, do(t, http.MethodGet, base, ""), http.StatusNotFound)
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/v1/sessions/not-a-ulid", ""), http.StatusNotFound)
}

func TestSessionSocketPushesUpdates(t *testing.T) {
	ts := newTestServer(t)
	putChain(t, ts, "chain")

	resp := do(t, http.MethodPost, ts.URL+"/v1/sessions", `{"graphs":["chain"],"anchors":["X"]}`)
	expectStatus(t, resp, http.StatusCreated)
	id := decode[sessionView](t, resp).ID

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first snapshotResponse
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.Version != 1 {
		t.Errorf("first version = %d, want 1", first.Version)
	}

	expectStatus(t, do(t, http.MethodPatch, ts.URL+"/v1/sessions/"+id, `{"type":"Adjacents"}`), http.StatusOK)

	var next snapshotResponse
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatal(err)
	}
	if next.Version != 2 {
		t.Errorf("pushed version = %d, want 2", next.Version)
	}
	if got := len(next.Results[0].Result.Edges); got != 1 {
		t.Errorf("Adjacents of X edges = %d, want 1", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	putChain(t, ts, "chain")
	expectStatus(t, do(t, http.MethodPost, ts.URL+"/v1/select", `{"graphs":["chain"],"anchors":["X"]}`), http.StatusOK)

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"graphselect_selections_total", "graphselect_graphs_stored"} {
		if !bytes.Contains(body, []byte(name)) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}
