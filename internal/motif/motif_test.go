package motif

import (
	"slices"
	"sort"
	"testing"

	"github.com/imyousuf/graphselect/internal/graph"
)

func edgeStrings(edges []*graph.Edge) []string {
	var out []string
	for _, e := range edges {
		out = append(out, e.String())
	}
	sort.Strings(out)
	return out
}

func build(t *testing.T, edges ...*graph.Edge) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, e := range edges {
		for _, n := range []*graph.Node{e.Node1, e.Node2} {
			if err := g.AddNode(n); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge %s: %v", e, err)
		}
	}
	return g
}

func TestYStructureGuard(t *testing.T) {
	a, b, z, c, d := graph.NewNode("A"), graph.NewNode("B"), graph.NewNode("Z"), graph.NewNode("C"), graph.NewNode("D")

	t.Run("one parent two children", func(t *testing.T) {
		g := build(t,
			graph.NewDirectedEdge(a, z),
			graph.NewDirectedEdge(z, c),
			graph.NewDirectedEdge(z, d),
		)
		if got := YStructureEdges(g, z, Directed); len(got) != 0 {
			t.Errorf("YStructureEdges = %v, want none", edgeStrings(got))
		}
	})

	t.Run("two parents one child", func(t *testing.T) {
		g := build(t,
			graph.NewDirectedEdge(a, z),
			graph.NewDirectedEdge(b, z),
			graph.NewDirectedEdge(z, c),
		)
		got := edgeStrings(YStructureEdges(g, z, Directed))
		want := []string{"A --> Z", "B --> Z", "Z --> C"}
		if !slices.Equal(got, want) {
			t.Errorf("YStructureEdges = %v, want %v", got, want)
		}
	})

	t.Run("two parents no child", func(t *testing.T) {
		g := build(t,
			graph.NewDirectedEdge(a, z),
			graph.NewDirectedEdge(b, z),
		)
		if got := YStructureEdges(g, z, Directed); len(got) != 0 {
			t.Errorf("YStructureEdges = %v, want none", edgeStrings(got))
		}
	})
}

func TestPagYStructure(t *testing.T) {
	a, b, z, c := graph.NewNode("A"), graph.NewNode("B"), graph.NewNode("Z"), graph.NewNode("C")
	g := build(t,
		graph.NewPartiallyOrientedEdge(a, z),
		graph.NewPartiallyOrientedEdge(b, z),
		graph.NewDirectedEdge(z, c),
	)

	got := edgeStrings(YStructureEdges(g, z, PartiallyOriented))
	want := []string{"A o-> Z", "B o-> Z", "Z --> C"}
	if !slices.Equal(got, want) {
		t.Errorf("PartiallyOriented = %v, want %v", got, want)
	}
	// o-> edges do not count as directed parents.
	if got := YStructureEdges(g, z, Directed); len(got) != 0 {
		t.Errorf("Directed = %v, want none", edgeStrings(got))
	}
}

func TestIncomingIgnoresOutgoingAndBidirected(t *testing.T) {
	a, b, z := graph.NewNode("A"), graph.NewNode("B"), graph.NewNode("Z")
	g := build(t,
		graph.NewBidirectedEdge(a, z),
		graph.NewDirectedEdge(z, b),
	)
	if got := Incoming(g, z, Directed); len(got) != 0 {
		t.Errorf("Incoming = %v, want none", edgeStrings(got))
	}
}
