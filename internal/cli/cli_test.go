package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/config"
	"github.com/imyousuf/graphselect/internal/selection"
)

const chainText = `Graph Nodes:
X;M;Y

Graph Edges:
1. X --> M
2. M --> Y
`

// setupWorkspace changes into a fresh directory holding chain.txt.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "chain.txt", chainText)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

type selectOutput struct {
	Config  string   `json:"config"`
	Anchors []string `json:"anchors"`
	Results []struct {
		Result struct {
			Name  string `json:"name"`
			Nodes []struct {
				Name string `json:"name"`
			} `json:"nodes"`
			Edges []struct {
				Node1 string `json:"node1"`
				Node2 string `json:"node2"`
			} `json:"edges"`
		} `json:"result"`
		Highlighted []string `json:"highlighted"`
	} `json:"results"`
}

func TestInit(t *testing.T) {
	setupWorkspace(t)

	mustRun(t, "init")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ConfigFile == "" {
		t.Fatal("init did not write a config file that Load finds")
	}
	if cfg.Selection.Type != selection.Subgraph.String() {
		t.Errorf("selection.type = %q, want %q", cfg.Selection.Type, selection.Subgraph)
	}

	if _, err := run(t, "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
	mustRun(t, "init", "--force")
}

func TestSelectJSON(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, "select", "chain.txt", "--type", "Parents", "--anchors", "Y", "--format", "json")
	var got selectOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Config != "Parents" {
		t.Errorf("config = %q, want Parents", got.Config)
	}
	if len(got.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(got.Results))
	}
	r := got.Results[0]
	if r.Result.Name != "chain" {
		t.Errorf("name = %q, want chain", r.Result.Name)
	}
	if len(r.Result.Edges) != 1 || r.Result.Edges[0].Node1 != "M" || r.Result.Edges[0].Node2 != "Y" {
		t.Errorf("edges = %+v, want M --> Y", r.Result.Edges)
	}
	if !slices.Equal(r.Highlighted, []string{"Y"}) {
		t.Errorf("highlighted = %v, want [Y]", r.Highlighted)
	}
}

func TestSelectText(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, "select", "chain.txt", "-t", "Adjacents", "-a", "M")
	for _, want := range []string{"Adjacents", "chain", "X --> M", "M --> Y"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSelectTxtRoundTrip(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, "select", "chain.txt", "--anchors", "X,M,Y", "--format", "txt")
	if out != chainText {
		t.Errorf("subgraph on every node = %q, want %q", out, chainText)
	}
}

func TestSelectFromConfig(t *testing.T) {
	setupWorkspace(t)
	writeFile(t, ".graphselect.yaml", `graphs:
  - chain.txt
selection:
  type: Children
  selected_variables: [X]
`)

	out := mustRun(t, "select", "-f", "txt")
	want := "Graph Nodes:\nX;M\n\nGraph Edges:\n1. X --> M\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out = mustRun(t, "select", "-f", "txt", "--type", "Parents", "--anchors", "M")
	if !strings.Contains(out, "1. X --> M") {
		t.Errorf("flags did not override config:\n%s", out)
	}
}

func TestSelectOutDirectory(t *testing.T) {
	dir := setupWorkspace(t)
	writeFile(t, "other.txt", chainText)

	mustRun(t, "select", "chain.txt", "other.txt", "-f", "dot", "-o", "out")
	for _, name := range []string{"chain.dot", "other.dot"} {
		data, err := os.ReadFile(filepath.Join(dir, "out", name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "digraph") {
			t.Errorf("%s is not a digraph:\n%s", name, data)
		}
	}
}

func TestSelectErrors(t *testing.T) {
	setupWorkspace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no graphs", []string{"select"}, "no graphs given"},
		{"unknown type", []string{"select", "chain.txt", "--type", "Cousins"}, "unrecognized selection type"},
		{"negative n", []string{"select", "chain.txt", "--type", "Treks", "--n=-1"}, "non-negative"},
		{"missing file", []string{"select", "nope.txt"}, "nope.txt"},
		{"unknown format", []string{"select", "chain.txt", "-f", "xml"}, "unknown output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestCatalogLifecycle(t *testing.T) {
	setupWorkspace(t)

	if out := mustRun(t, "graphs"); !strings.Contains(out, "No stored graphs") {
		t.Errorf("empty catalog listing = %q", out)
	}

	mustRun(t, "import", "chain.txt")
	mustRun(t, "import", "chain.txt", "--name", "copy")

	out := mustRun(t, "graphs")
	for _, want := range []string{"chain", "copy", "local"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}

	if got := mustRun(t, "export", "chain"); got != chainText {
		t.Errorf("export = %q, want %q", got, chainText)
	}

	out = mustRun(t, "select", "store:copy", "--type", "Children", "--anchors", "M", "-f", "txt")
	if !strings.Contains(out, "1. M --> Y") {
		t.Errorf("select from store = %q", out)
	}

	mustRun(t, "rm", "copy")
	if _, err := run(t, "export", "copy"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("export after rm error = %v, want not found", err)
	}

	if _, err := run(t, "import", "chain.txt", "--name", "bad:name"); err == nil {
		t.Error("expected an invalid name error")
	}
}

func TestDumpRestore(t *testing.T) {
	dir := setupWorkspace(t)

	mustRun(t, "import", "chain.txt")
	dump := filepath.Join(dir, "catalog.jsonl")
	mustRun(t, "dump", "-o", dump)

	mustRun(t, "rm", "chain")
	if out := mustRun(t, "restore", dump); !strings.Contains(out, "Restored 1 graphs") {
		t.Errorf("restore output = %q", out)
	}
	if got := mustRun(t, "export", "chain"); got != chainText {
		t.Errorf("export after restore = %q, want %q", got, chainText)
	}
}

func TestStatus(t *testing.T) {
	setupWorkspace(t)

	mustRun(t, "import", "chain.txt")
	out := mustRun(t, "status", "--metrics")
	for _, want := range []string{"Graph Catalog", "directed", "max_degree", "acyclic"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestRender(t *testing.T) {
	dir := setupWorkspace(t)

	mustRun(t, "render", "chain.txt", "-a", "X", "-o", "page.html")
	data, err := os.ReadFile(filepath.Join(dir, "page.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "echarts") {
		t.Error("page does not load echarts")
	}
}

func TestTypes(t *testing.T) {
	out := mustRun(t, "types")
	for _, typ := range selection.Types() {
		if !strings.Contains(out, typ.String()) {
			t.Errorf("types output missing %s", typ)
		}
	}
	if !strings.Contains(out, "atLeast (>=)") {
		t.Errorf("types output missing comparators:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	if out := mustRun(t, "version"); !strings.HasPrefix(out, "graphselect version dev") {
		t.Errorf("version = %q", out)
	}
}

func TestSelectionUpdate(t *testing.T) {
	u, err := selectionUpdate(config.SelectionConfig{Type: "treks", N: 2, Comparator: "atMost"})
	if err != nil {
		t.Fatal(err)
	}
	if *u.Type != selection.Treks || *u.N != 2 || *u.Comparator != compare.AtMost {
		t.Errorf("update = %v %v %v", *u.Type, *u.N, *u.Comparator)
	}
	if u.Anchors == nil || len(u.Anchors) != 0 {
		t.Errorf("anchors = %#v, want empty non-nil", u.Anchors)
	}

	if _, err := selectionUpdate(config.SelectionConfig{Type: "Treks", Comparator: "about"}); err == nil {
		t.Error("expected a comparator error")
	}
}

func TestWatchFiles(t *testing.T) {
	dir := setupWorkspace(t)
	writeFile(t, ".graphselect.yaml", "graphs: [chain.txt, store:kept, chain.txt]\n")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	w := &selectionWatch{cfg: cfg}
	got := w.files()
	want := []string{filepath.Join(dir, ".graphselect.yaml"), filepath.Join(dir, "chain.txt")}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}
