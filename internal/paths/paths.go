// Package paths enumerates simple paths between two nodes of a graph.
package paths

import (
	"iter"
	"slices"

	"github.com/imyousuf/graphselect/internal/graph"
)

// Unbounded disables the length limit of AllPaths.
const Unbounded = -1

// AllPaths yields every simple path from x to y with at most maxLen edges
// (maxLen < 0 for no limit), as node lists starting at x and ending at y.
// With directed set, only directed edges are followed, tail to arrow;
// otherwise any edge is followed either way.
//
// The sequence is lazy: each range over it runs a fresh depth-first search,
// and stopping early abandons the search. Each yielded slice is owned by
// the caller. Nodes must belong to g; a path from a node to itself is never
// produced.
func AllPaths(g *graph.Graph, x, y *graph.Node, maxLen int, directed bool) iter.Seq[[]*graph.Node] {
	return func(yield func([]*graph.Node) bool) {
		if !g.Contains(x) || !g.Contains(y) || x == y || maxLen == 0 {
			return
		}
		next := g.AdjacentNodes
		if directed {
			next = g.Children
		}

		path := []*graph.Node{x}
		onPath := map[*graph.Node]bool{x: true}
		var walk func(n *graph.Node) bool
		walk = func(n *graph.Node) bool {
			if maxLen >= 0 && len(path)-1 >= maxLen {
				return true
			}
			for _, m := range next(n) {
				if onPath[m] {
					continue
				}
				path = append(path, m)
				if m == y {
					if !yield(slices.Clone(path)) {
						return false
					}
				} else {
					onPath[m] = true
					if !walk(m) {
						return false
					}
					delete(onPath, m)
				}
				path = path[:len(path)-1]
			}
			return true
		}
		walk(x)
	}
}

// Length returns the number of edges on a path.
func Length(path []*graph.Node) int {
	return max(len(path)-1, 0)
}

// EdgesOnPath returns the edges joining consecutive nodes of path. For a
// directed path only the directed edge in path direction is taken;
// otherwise every edge between the two nodes is.
func EdgesOnPath(g *graph.Graph, path []*graph.Node, directed bool) []*graph.Edge {
	var out []*graph.Edge
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if directed {
			if e := g.DirectedEdge(a, b); e != nil {
				out = append(out, e)
			}
			continue
		}
		out = append(out, g.EdgesBetween(a, b)...)
	}
	return out
}

// Exists reports whether some path from x to y satisfies keep, searching
// paths of at most maxLen edges. It stops at the first match.
func Exists(g *graph.Graph, x, y *graph.Node, maxLen int, directed bool, keep func(length int) bool) bool {
	for p := range AllPaths(g, x, y, maxLen, directed) {
		if keep(Length(p)) {
			return true
		}
	}
	return false
}
