// Package closure expands node sets along the structure of a graph:
// ancestor and descendant closures, adjacency rings and Markov blankets.
package closure

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/imyousuf/graphselect/internal/graph"
)

// directedView is the directed part of a graph as a gonum graph. Node IDs
// are positions in the source graph's node list.
type directedView struct {
	dg    *simple.DirectedGraph
	nodes []*graph.Node
	ids   map[*graph.Node]int64
}

// newDirectedView keeps only the directed edges of g. With reverse set,
// every edge is turned around so that walking it goes from child to parent.
func newDirectedView(g *graph.Graph, reverse bool) *directedView {
	v := &directedView{
		dg:    simple.NewDirectedGraph(),
		nodes: g.Nodes(),
		ids:   make(map[*graph.Node]int64),
	}
	for i, n := range v.nodes {
		v.ids[n] = int64(i)
		v.dg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		from, to := e.Tail(), e.Head()
		if from == nil {
			continue
		}
		if reverse {
			from, to = to, from
		}
		v.dg.SetEdge(v.dg.NewEdge(simple.Node(v.ids[from]), simple.Node(v.ids[to])))
	}
	return v
}

// reach walks breadth-first from every seed and returns the nodes reached,
// seeds excluded, in source graph order.
func (v *directedView) reach(seeds []*graph.Node) []*graph.Node {
	isSeed := make(map[int64]bool, len(seeds))
	var bf traverse.BreadthFirst
	for _, s := range seeds {
		id, ok := v.ids[s]
		if !ok {
			continue
		}
		isSeed[id] = true
		bf.Walk(v.dg, simple.Node(id), nil)
	}
	var out []*graph.Node
	for i, n := range v.nodes {
		id := int64(i)
		if !isSeed[id] && bf.Visited(simple.Node(id)) {
			out = append(out, n)
		}
	}
	return out
}

// Ancestors returns every node with a directed path into some seed. Seeds
// are not included, even when one is an ancestor of another. Seeds not in
// g are ignored.
func Ancestors(g *graph.Graph, seeds []*graph.Node) []*graph.Node {
	return newDirectedView(g, true).reach(g.Resolve(seeds))
}

// Descendants returns every node reachable by a directed path from some
// seed, seeds excluded.
func Descendants(g *graph.Graph, seeds []*graph.Node) []*graph.Node {
	return newDirectedView(g, false).reach(g.Resolve(seeds))
}

// Adjacents returns the seeds together with every node within rings
// adjacency steps of them, in source graph order. rings = 0 returns the
// seeds alone.
func Adjacents(g *graph.Graph, seeds []*graph.Node, rings int) []*graph.Node {
	in := make(map[*graph.Node]bool)
	frontier := g.Resolve(seeds)
	for _, s := range frontier {
		in[s] = true
	}
	for range rings {
		var next []*graph.Node
		for _, n := range frontier {
			for _, m := range g.AdjacentNodes(n) {
				if !in[m] {
					in[m] = true
					next = append(next, m)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return inOrder(g, in)
}

// MarkovBlanket returns the adjacents of z together with the other parents
// of its children. z itself is excluded.
func MarkovBlanket(g *graph.Graph, z *graph.Node) []*graph.Node {
	if !g.Contains(z) {
		return nil
	}
	in := make(map[*graph.Node]bool)
	for _, a := range g.AdjacentNodes(z) {
		in[a] = true
	}
	for _, c := range g.Children(z) {
		for _, p := range g.Parents(c) {
			in[p] = true
		}
	}
	delete(in, z)
	return inOrder(g, in)
}

// IsAcyclic reports whether the directed edges of g form no cycle.
func IsAcyclic(g *graph.Graph) bool {
	_, err := topo.Sort(newDirectedView(g, false).dg)
	return err == nil
}

// Cycles returns the strongly connected groups of two or more nodes in the
// directed part of g, each in source graph order.
func Cycles(g *graph.Graph) [][]*graph.Node {
	v := newDirectedView(g, false)
	var out [][]*graph.Node
	for _, comp := range topo.TarjanSCC(v.dg) {
		if len(comp) < 2 {
			continue
		}
		in := make(map[*graph.Node]bool, len(comp))
		for _, n := range comp {
			in[v.nodes[n.ID()]] = true
		}
		out = append(out, inOrder(g, in))
	}
	sort.Slice(out, func(i, j int) bool { return v.ids[out[i][0]] < v.ids[out[j][0]] })
	return out
}

func inOrder(g *graph.Graph, in map[*graph.Node]bool) []*graph.Node {
	out := make([]*graph.Node, 0, len(in))
	for _, n := range g.Nodes() {
		if in[n] {
			out = append(out, n)
		}
	}
	return out
}
