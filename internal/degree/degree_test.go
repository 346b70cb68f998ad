package degree

import (
	"fmt"
	"slices"
	"testing"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/graph"
)

func names(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

// fanOut gives A two children, B three and C two; D is a child of A and B.
func fanOut(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	children := map[string]int{"A": 2, "B": 3, "C": 2}
	for _, p := range []string{"A", "B", "C"} {
		g.EnsureNode(p)
	}
	d := g.EnsureNode("D")
	for _, p := range []string{"A", "B", "C"} {
		parent := g.Node(p)
		for i := 0; i < children[p]; i++ {
			var c *graph.Node
			if i == 0 && p != "C" {
				c = d
			} else {
				c = g.EnsureNode(fmt.Sprintf("%s%d", p, i))
			}
			if err := g.AddDirectedEdge(parent, c); err != nil {
				t.Fatal(err)
			}
		}
	}
	return g
}

func TestOutDegreeEqualsBoundary(t *testing.T) {
	g := fanOut(t)
	anchors := []*graph.Node{g.Node("A"), g.Node("B"), g.Node("C")}

	nodes, edges := Filter(g, anchors, Out, 2, compare.Equals)
	if got := names(nodes); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("nodes = %v, want [A C]", got)
	}
	if len(edges) != 4 {
		t.Errorf("edges = %d, want 4", len(edges))
	}
	for _, e := range edges {
		if !e.IsDirected() || (e.Tail().Name != "A" && e.Tail().Name != "C") {
			t.Errorf("unexpected edge %s", e)
		}
	}
}

func TestFilterComparators(t *testing.T) {
	g := fanOut(t)
	anchors := []*graph.Node{g.Node("A"), g.Node("B"), g.Node("C"), g.Node("D")}
	tests := []struct {
		kind Kind
		n    int
		cmp  compare.Comparator
		want []string
	}{
		{Out, 3, compare.AtLeast, []string{"B"}},
		{Out, 2, compare.AtMost, []string{"A", "C", "D"}},
		{In, 2, compare.Equals, []string{"D"}},
		{In, 0, compare.Equals, []string{"A", "B", "C"}},
		{Total, 2, compare.Equals, []string{"A", "C", "D"}},
		{Total, 1, compare.AtLeast, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		nodes, _ := Filter(g, anchors, tt.kind, tt.n, tt.cmp)
		if got := names(nodes); !slices.Equal(got, tt.want) {
			t.Errorf("%v %v %d = %v, want %v", tt.kind, tt.cmp, tt.n, got, tt.want)
		}
	}
}

func TestInDegreeEdgesPointAtAnchor(t *testing.T) {
	g := fanOut(t)
	d := g.Node("D")
	_, edges := Filter(g, []*graph.Node{d}, In, 2, compare.Equals)
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
	for _, e := range edges {
		if e.Head() != d {
			t.Errorf("edge %s does not point at D", e)
		}
	}
}

func TestFilterSkipsForeignAnchors(t *testing.T) {
	g := fanOut(t)
	nodes, edges := Filter(g, []*graph.Node{graph.NewNode("Q")}, Total, 0, compare.AtLeast)
	if len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("foreign anchor gave %v / %v", names(nodes), edges)
	}
}
