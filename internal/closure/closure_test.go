package closure

import (
	"slices"
	"testing"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/paths"
)

func names(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

// asia builds the usual chest-clinic DAG:
//
//	Asia --> Tub, Smoke --> Lung, Smoke --> Bronc, Tub --> Either,
//	Lung --> Either, Either --> Xray, Either --> Dysp, Bronc --> Dysp.
func asia(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []string{"Asia", "Smoke", "Tub", "Lung", "Bronc", "Either", "Xray", "Dysp"} {
		g.EnsureNode(n)
	}
	for _, pair := range [][2]string{
		{"Asia", "Tub"}, {"Smoke", "Lung"}, {"Smoke", "Bronc"}, {"Tub", "Either"},
		{"Lung", "Either"}, {"Either", "Xray"}, {"Either", "Dysp"}, {"Bronc", "Dysp"},
	} {
		if err := g.AddDirectedEdge(g.Node(pair[0]), g.Node(pair[1])); err != nil {
			t.Fatalf("add %v: %v", pair, err)
		}
	}
	return g
}

func TestAncestors(t *testing.T) {
	g := asia(t)
	tests := []struct {
		seeds []string
		want  []string
	}{
		{[]string{"Either"}, []string{"Asia", "Smoke", "Tub", "Lung"}},
		{[]string{"Dysp"}, []string{"Asia", "Smoke", "Tub", "Lung", "Bronc", "Either"}},
		// Tub is an ancestor of Either but is a seed, so it is left out.
		{[]string{"Either", "Tub"}, []string{"Asia", "Smoke", "Lung"}},
		{[]string{"Asia"}, nil},
		{[]string{"Nowhere"}, nil},
	}
	for _, tt := range tests {
		var seeds []*graph.Node
		for _, s := range tt.seeds {
			seeds = append(seeds, graph.NewNode(s))
		}
		got := names(Ancestors(g, seeds))
		if !slices.Equal(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
			t.Errorf("Ancestors(%v) = %v, want %v", tt.seeds, got, tt.want)
		}
	}
}

func TestDescendants(t *testing.T) {
	g := asia(t)
	got := names(Descendants(g, []*graph.Node{g.Node("Smoke")}))
	if want := []string{"Lung", "Bronc", "Either", "Xray", "Dysp"}; !slices.Equal(got, want) {
		t.Errorf("Descendants(Smoke) = %v, want %v", got, want)
	}
}

func TestAncestorsContainEveryDirectedPath(t *testing.T) {
	g := asia(t)
	z := g.Node("Dysp")
	anc := Ancestors(g, []*graph.Node{z})
	in := map[*graph.Node]bool{z: true}
	for _, a := range anc {
		in[a] = true
	}
	for _, a := range anc {
		for p := range paths.AllPaths(g, a, z, paths.Unbounded, true) {
			for _, n := range p {
				if !in[n] {
					t.Errorf("path %v leaves the ancestor set at %s", names(p), n.Name)
				}
			}
		}
	}
}

func TestClosureIgnoresNonDirectedEdges(t *testing.T) {
	g := graph.New()
	a, b, c := g.EnsureNode("A"), g.EnsureNode("B"), g.EnsureNode("C")
	_ = g.AddPartiallyOrientedEdge(a, b)
	_ = g.AddBidirectedEdge(b, c)
	if got := Ancestors(g, []*graph.Node{b}); len(got) != 0 {
		t.Errorf("Ancestors(B) = %v, want none", names(got))
	}
}

func TestClosureOnCycle(t *testing.T) {
	g := graph.New()
	a, b, c := g.EnsureNode("A"), g.EnsureNode("B"), g.EnsureNode("C")
	_ = g.AddDirectedEdge(a, b)
	_ = g.AddDirectedEdge(b, c)
	_ = g.AddDirectedEdge(c, a)
	if got := names(Descendants(g, []*graph.Node{a})); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Descendants(A) = %v, want [B C]", got)
	}
	if IsAcyclic(g) {
		t.Error("IsAcyclic = true on a 3-cycle")
	}
	cycles := Cycles(g)
	if len(cycles) != 1 || !slices.Equal(names(cycles[0]), []string{"A", "B", "C"}) {
		t.Errorf("Cycles = %v, want one cycle [A B C]", cycles)
	}
}

func TestAdjacentRings(t *testing.T) {
	g := asia(t)
	seed := []*graph.Node{g.Node("Asia")}
	tests := []struct {
		rings int
		want  []string
	}{
		{0, []string{"Asia"}},
		{1, []string{"Asia", "Tub"}},
		{2, []string{"Asia", "Tub", "Either"}},
		{3, []string{"Asia", "Tub", "Lung", "Either", "Xray", "Dysp"}},
	}
	for _, tt := range tests {
		if got := names(Adjacents(g, seed, tt.rings)); !slices.Equal(got, tt.want) {
			t.Errorf("rings %d = %v, want %v", tt.rings, got, tt.want)
		}
	}
}

func TestMarkovBlanket(t *testing.T) {
	g := asia(t)
	tests := []struct {
		node string
		want []string
	}{
		// Parents, children, and the other parent of each child.
		{"Lung", []string{"Smoke", "Tub", "Either"}},
		{"Either", []string{"Tub", "Lung", "Bronc", "Xray", "Dysp"}},
		{"Asia", []string{"Tub"}},
	}
	for _, tt := range tests {
		if got := names(MarkovBlanket(g, g.Node(tt.node))); !slices.Equal(got, tt.want) {
			t.Errorf("MarkovBlanket(%s) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestIsAcyclic(t *testing.T) {
	if !IsAcyclic(asia(t)) {
		t.Error("IsAcyclic(asia) = false")
	}
}
