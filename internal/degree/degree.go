// Package degree filters nodes by the size of their parent, child or
// adjacent sets.
package degree

import (
	"fmt"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/graph"
)

// Kind selects which neighbour set is counted.
type Kind int

const (
	In Kind = iota
	Out
	Total
)

func (k Kind) String() string {
	switch k {
	case In:
		return "in"
	case Out:
		return "out"
	case Total:
		return "total"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Neighbours returns the parents, children or adjacents of z.
func Neighbours(g *graph.Graph, z *graph.Node, kind Kind) []*graph.Node {
	switch kind {
	case In:
		return g.Parents(z)
	case Out:
		return g.Children(z)
	default:
		return g.AdjacentNodes(z)
	}
}

// Of returns the degree of z of the given kind.
func Of(g *graph.Graph, z *graph.Node, kind Kind) int {
	return len(Neighbours(g, z, kind))
}

// Filter keeps the anchors whose neighbour count satisfies cmp against n.
// For each kept anchor it also returns the edges joining it to the counted
// neighbours: the directed edges for In and Out, every edge for Total.
// Anchors not in g are skipped.
func Filter(g *graph.Graph, anchors []*graph.Node, kind Kind, n int, cmp compare.Comparator) ([]*graph.Node, []*graph.Edge) {
	var nodes []*graph.Node
	var edges []*graph.Edge
	for _, z := range g.Resolve(anchors) {
		h := Neighbours(g, z, kind)
		if !cmp.Holds(len(h), n) {
			continue
		}
		nodes = append(nodes, z)
		for _, m := range h {
			switch kind {
			case In:
				edges = append(edges, g.DirectedEdge(m, z))
			case Out:
				edges = append(edges, g.DirectedEdge(z, m))
			default:
				edges = append(edges, g.EdgesBetween(z, m)...)
			}
		}
	}
	return nodes, edges
}
