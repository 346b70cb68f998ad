package graph

import (
	"errors"
	"testing"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mixedGraph builds A --> C <-- B, C --> D, D o-> E, E <-> F.
func mixedGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		g.EnsureNode(n)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddDirectedEdge(g.Node("A"), g.Node("C")))
	must(g.AddEdge(NewEdge(g.Node("C"), g.Node("B"), Arrow, Tail)))
	must(g.AddDirectedEdge(g.Node("C"), g.Node("D")))
	must(g.AddPartiallyOrientedEdge(g.Node("D"), g.Node("E")))
	must(g.AddBidirectedEdge(g.Node("E"), g.Node("F")))
	return g
}

func TestEdgePredicates(t *testing.T) {
	a, b := NewNode("A"), NewNode("B")
	tests := []struct {
		name     string
		edge     *Edge
		directed bool
		partial  bool
		towardsB bool
		towardsA bool
		symbol   string
		kind     EdgeKind
	}{
		{"directed", NewDirectedEdge(a, b), true, false, true, false, "-->", KindDirected},
		{"reversed directed", NewEdge(a, b, Arrow, Tail), true, false, false, true, "<--", KindDirected},
		{"partially oriented", NewPartiallyOrientedEdge(a, b), false, true, true, false, "o->", KindPartiallyOriented},
		{"bidirected", NewBidirectedEdge(a, b), false, false, false, false, "<->", KindBidirected},
		{"undirected", NewUndirectedEdge(a, b), false, false, false, false, "---", KindUndirected},
		{"nondirected", NewNondirectedEdge(a, b), false, false, false, false, "o-o", KindNondirected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edge.IsDirected(); got != tt.directed {
				t.Errorf("IsDirected = %v, want %v", got, tt.directed)
			}
			if got := tt.edge.IsPartiallyOriented(); got != tt.partial {
				t.Errorf("IsPartiallyOriented = %v, want %v", got, tt.partial)
			}
			if got := tt.edge.PointsTowards(b); got != tt.towardsB {
				t.Errorf("PointsTowards(B) = %v, want %v", got, tt.towardsB)
			}
			if got := tt.edge.PointsTowards(a); got != tt.towardsA {
				t.Errorf("PointsTowards(A) = %v, want %v", got, tt.towardsA)
			}
			if got := tt.edge.Symbol(); got != tt.symbol {
				t.Errorf("Symbol = %q, want %q", got, tt.symbol)
			}
			if got := tt.edge.Kind(); got != tt.kind {
				t.Errorf("Kind = %q, want %q", got, tt.kind)
			}
			e1, e2, err := ParseSymbol(tt.symbol)
			if err != nil {
				t.Fatalf("ParseSymbol(%q): %v", tt.symbol, err)
			}
			if e1 != tt.edge.Endpoint1 || e2 != tt.edge.Endpoint2 {
				t.Errorf("ParseSymbol(%q) = %v,%v, want %v,%v", tt.symbol, e1, e2, tt.edge.Endpoint1, tt.edge.Endpoint2)
			}
		})
	}
}

func TestEdgeKeyIgnoresOrientationOfPair(t *testing.T) {
	a, b := NewNode("A"), NewNode("B")
	if NewDirectedEdge(a, b).Key() != NewEdge(b, a, Arrow, Tail).Key() {
		t.Error("A --> B and B <-- A should share a key")
	}
	if NewDirectedEdge(a, b).Key() == NewDirectedEdge(b, a).Key() {
		t.Error("A --> B and B --> A should not share a key")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	a, b := g.EnsureNode("A"), g.EnsureNode("B")

	if err := g.AddDirectedEdge(a, b); err != nil {
		t.Fatalf("AddDirectedEdge: %v", err)
	}
	// Same value from the other side is a no-op.
	if err := g.AddEdge(NewEdge(b, a, Arrow, Tail)); err != nil {
		t.Fatalf("AddEdge duplicate: %v", err)
	}
	if g.NumEdges() != 1 {
		t.Errorf("NumEdges = %d, want 1", g.NumEdges())
	}
	// A 2-cycle is two distinct edges.
	if err := g.AddDirectedEdge(b, a); err != nil {
		t.Fatalf("AddDirectedEdge reverse: %v", err)
	}
	if g.NumEdges() != 2 {
		t.Errorf("NumEdges = %d, want 2", g.NumEdges())
	}

	if err := g.AddDirectedEdge(a, NewNode("Z")); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("foreign node err = %v, want ErrUnknownNode", err)
	}
	if err := g.AddDirectedEdge(a, a); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop err = %v, want ErrSelfLoop", err)
	}
	if err := g.AddNode(NewNode("A")); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate name err = %v, want ErrDuplicateNode", err)
	}
	if err := g.AddNode(a); err != nil {
		t.Errorf("re-adding same node: %v", err)
	}
}

func TestNeighbourhoods(t *testing.T) {
	g := mixedGraph(t)
	c := g.Node("C")

	if got := names(g.Parents(c)); !equalStrings(got, []string{"A", "B"}) {
		t.Errorf("Parents(C) = %v, want [A B]", got)
	}
	if got := names(g.Children(c)); !equalStrings(got, []string{"D"}) {
		t.Errorf("Children(C) = %v, want [D]", got)
	}
	if got := names(g.AdjacentNodes(c)); !equalStrings(got, []string{"A", "B", "D"}) {
		t.Errorf("AdjacentNodes(C) = %v, want [A B D]", got)
	}
	// o-> does not make a parent.
	if got := g.Parents(g.Node("E")); len(got) != 0 {
		t.Errorf("Parents(E) = %v, want none", names(got))
	}
	if e := g.DirectedEdge(g.Node("B"), c); e == nil {
		t.Error("DirectedEdge(B, C) = nil, want C <-- B")
	}
	if e := g.DirectedEdge(c, g.Node("B")); e != nil {
		t.Errorf("DirectedEdge(C, B) = %v, want nil", e)
	}
	if !g.IsAdjacentTo(g.Node("E"), g.Node("F")) {
		t.Error("E and F should be adjacent")
	}
}

func TestResolve(t *testing.T) {
	g := mixedGraph(t)
	foreign := []*Node{NewNode("C"), NewNode("missing"), NewNode("A"), NewNode("C")}
	got := g.Resolve(foreign)
	if !equalStrings(names(got), []string{"C", "A"}) {
		t.Fatalf("Resolve = %v, want [C A]", names(got))
	}
	if got[0] != g.Node("C") {
		t.Error("Resolve should return the graph's own node")
	}
}

func TestSubgraphKeepsOrderAndMarks(t *testing.T) {
	g := mixedGraph(t)
	sub := g.Subgraph([]*Node{NewNode("D"), NewNode("C"), NewNode("A")})
	if got := names(sub.Nodes()); !equalStrings(got, []string{"A", "C", "D"}) {
		t.Errorf("Nodes = %v, want [A C D]", got)
	}
	var edges []string
	for _, e := range sub.Edges() {
		edges = append(edges, e.String())
	}
	if !equalStrings(edges, []string{"A --> C", "C --> D"}) {
		t.Errorf("Edges = %v, want [A --> C, C --> D]", edges)
	}

	full := g.Subgraph(g.Nodes())
	if full.NumNodes() != g.NumNodes() || full.NumEdges() != g.NumEdges() {
		t.Fatalf("full subgraph = %d/%d, want %d/%d", full.NumNodes(), full.NumEdges(), g.NumNodes(), g.NumEdges())
	}
	for _, e := range g.Edges() {
		if !full.ContainsEdge(e) {
			t.Errorf("full subgraph missing %s", e)
		}
	}
}

func TestBuilderUsesSourceOrder(t *testing.T) {
	g := mixedGraph(t)
	b := NewBuilder(g)
	b.AddEdge(g.Edge(g.Node("E"), g.Node("F")))
	b.AddNode(g.Node("A"))
	out := b.Build()
	if got := names(out.Nodes()); !equalStrings(got, []string{"A", "E", "F"}) {
		t.Errorf("Nodes = %v, want [A E F]", got)
	}
}

func TestStats(t *testing.T) {
	g := mixedGraph(t)
	if err := g.AddNode(NewLatentNode("L")); err != nil {
		t.Fatal(err)
	}
	st := g.Stats()
	if st.NodeCount != 7 || st.EdgeCount != 5 {
		t.Errorf("counts = %d/%d, want 7/5", st.NodeCount, st.EdgeCount)
	}
	if st.NodesByType[NodeLatent] != 1 {
		t.Errorf("latent = %d, want 1", st.NodesByType[NodeLatent])
	}
	if st.EdgesByKind[KindDirected] != 3 {
		t.Errorf("directed = %d, want 3", st.EdgesByKind[KindDirected])
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	g := mixedGraph(t)
	doc := ToDocument("mixed", g)
	back, err := doc.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if !equalStrings(names(back.Nodes()), names(g.Nodes())) {
		t.Errorf("nodes = %v, want %v", names(back.Nodes()), names(g.Nodes()))
	}
	for _, e := range g.Edges() {
		if !back.ContainsEdge(e) {
			t.Errorf("missing edge %s", e)
		}
	}

	doc.Edges = append(doc.Edges, EdgeDoc{Node1: "A", Node2: "nope"})
	if _, err := doc.Graph(); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}
