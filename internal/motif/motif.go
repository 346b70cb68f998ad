// Package motif detects local orientation patterns around a node.
package motif

import "github.com/imyousuf/graphselect/internal/graph"

// EdgeFilter picks which edges into a node count as incoming for a
// Y-structure.
type EdgeFilter int

const (
	// Directed counts tail-to-arrow edges.
	Directed EdgeFilter = iota
	// PartiallyOriented counts circle-to-arrow edges, as found in PAGs.
	PartiallyOriented
)

func (f EdgeFilter) String() string {
	if f == PartiallyOriented {
		return "partially-oriented"
	}
	return "directed"
}

func (f EdgeFilter) accepts(e *graph.Edge) bool {
	if f == PartiallyOriented {
		return e.IsPartiallyOriented()
	}
	return e.IsDirected()
}

// Incoming returns the edges of z accepted by the filter that point
// towards z.
func Incoming(g *graph.Graph, z *graph.Node, filter EdgeFilter) []*graph.Edge {
	var out []*graph.Edge
	for _, a := range g.AdjacentNodes(z) {
		for _, e := range g.EdgesBetween(z, a) {
			if filter.accepts(e) && e.PointsTowards(z) {
				out = append(out, e)
			}
		}
	}
	return out
}

// YStructureEdges returns the edges of the Y-structure centred on z: the
// incoming edges P selected by filter and the edge z --> c for every child
// c. It returns nil unless z has at least two incoming edges and at least
// one child.
func YStructureEdges(g *graph.Graph, z *graph.Node, filter EdgeFilter) []*graph.Edge {
	if !g.Contains(z) {
		return nil
	}
	in := Incoming(g, z, filter)
	children := g.Children(z)
	if len(in) <= 1 || len(children) == 0 {
		return nil
	}
	out := in
	for _, c := range children {
		out = append(out, g.DirectedEdge(z, c))
	}
	return out
}
