// Package selection derives graphs from base graphs and a set of anchor
// nodes: neighbourhoods, closures, paths, motifs and degree filters.
package selection

import (
	"slices"

	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"

	"github.com/imyousuf/graphselect/internal/closure"
	"github.com/imyousuf/graphselect/internal/degree"
	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/motif"
	"github.com/imyousuf/graphselect/internal/paths"
)

// Result is the selection computed for one base graph.
type Result struct {
	// Graph is the derived graph. It shares node values with the base graph.
	Graph *graph.Graph
	// Highlighted lists the anchors that contributed to Graph, in anchor
	// order: those with a non-empty relation of their own (parents for
	// Parents, a qualifying path for the path types, and so on). For
	// Subgraph it is the anchors adjacent to another anchor.
	Highlighted []*graph.Node
}

// Select applies cfg to every graph and returns one Result per graph, in
// the same order. Anchors are matched to each graph's nodes by name; an
// anchor missing from a graph is ignored for that graph. Graphs are
// processed concurrently and only read.
func Select(graphs []*graph.Graph, anchors []*graph.Node, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	anchors = dedupeByName(anchors)
	results := make([]Result, len(graphs))
	var eg errgroup.Group
	for i, g := range graphs {
		eg.Go(func() error {
			results[i] = SelectOne(g, anchors, cfg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SelectOne applies a validated cfg to a single graph.
func SelectOne(g *graph.Graph, anchors []*graph.Node, cfg Config) Result {
	r := &run{g: g, anchors: g.Resolve(anchors), cfg: cfg}
	switch cfg.Type {
	case Subgraph:
		return r.induce(r.anchors, nil)
	case Adjacents:
		return r.induce(closure.Adjacents(g, r.anchors, 1), g.AdjacentNodes)
	case AdjacentsOfAdjacents:
		return r.induce(closure.Adjacents(g, r.anchors, 2), g.AdjacentNodes)
	case AdjacentsOfAdjacentsOfAdjacents:
		return r.induce(closure.Adjacents(g, r.anchors, 3), g.AdjacentNodes)
	case Parents:
		return r.neighbourhood(g.Parents)
	case Children:
		return r.neighbourhood(g.Children)
	case Ancestors:
		// An anchor has an ancestor exactly when it has a parent.
		return r.induce(slices.Concat(r.anchors, closure.Ancestors(g, r.anchors)), g.Parents)
	case Descendants:
		return r.induce(slices.Concat(r.anchors, closure.Descendants(g, r.anchors)), g.Children)
	case MarkovBlankets:
		return r.neighbourhood(func(z *graph.Node) []*graph.Node {
			return closure.MarkovBlanket(g, z)
		})
	case Treks, Paths:
		return r.pathSummary(false)
	case TrekEdges, PathEdges:
		return r.pathEdges(false)
	case DirectedPaths:
		return r.pathSummary(true)
	case DirectedPathEdges:
		return r.pathEdges(true)
	case YStructures:
		return r.yStructures(motif.Directed)
	case PagYStructures:
		return r.yStructures(motif.PartiallyOriented)
	case Indegree:
		return r.degree(degree.In)
	case OutDegree:
		return r.degree(degree.Out)
	case Degree:
		return r.degree(degree.Total)
	}
	return Result{Graph: graph.New()}
}

type run struct {
	g       *graph.Graph
	anchors []*graph.Node
	cfg     Config
}

// neighbourhood returns the subgraph on the anchors and the nodes f gives
// for each. An anchor is highlighted when f gives it at least one node.
func (r *run) neighbourhood(f func(*graph.Node) []*graph.Node) Result {
	nodes := slices.Clone(r.anchors)
	var hl []*graph.Node
	for _, z := range r.anchors {
		ns := f(z)
		if len(ns) > 0 {
			hl = append(hl, z)
		}
		nodes = append(nodes, ns...)
	}
	return Result{Graph: r.g.Subgraph(nodes), Highlighted: hl}
}

// induce returns the subgraph on nodes. An anchor is highlighted when own
// gives it at least one node; a nil own means its neighbours within the
// subgraph.
func (r *run) induce(nodes []*graph.Node, own func(*graph.Node) []*graph.Node) Result {
	sub := r.g.Subgraph(nodes)
	if own == nil {
		own = sub.AdjacentNodes
	}
	var hl []*graph.Node
	for _, z := range r.anchors {
		if len(own(z)) > 0 {
			hl = append(hl, z)
		}
	}
	return Result{Graph: sub, Highlighted: hl}
}

// pairs calls f for every pair of distinct anchors: unordered (i < j) when
// ordered is false, both orders otherwise.
func (r *run) pairs(ordered bool, f func(x, y *graph.Node)) {
	for i, x := range r.anchors {
		for j, y := range r.anchors {
			if i == j || (!ordered && j < i) {
				continue
			}
			f(x, y)
		}
	}
}

// pathSummary builds a graph on the anchors with one edge per pair joined
// by a qualifying path: x --- y for undirected paths, x --> y for directed
// ones.
func (r *run) pathSummary(directed bool) Result {
	b := graph.NewBuilder(r.g)
	for _, z := range r.anchors {
		b.AddNode(z)
	}
	hl := newHighlights()
	bound := r.cfg.PathBound()
	r.pairs(directed, func(x, y *graph.Node) {
		found := paths.Exists(r.g, x, y, bound, directed, func(length int) bool {
			return r.cfg.Comparator.Holds(length, bound)
		})
		if !found {
			return
		}
		if directed {
			b.AddEdge(graph.NewDirectedEdge(x, y))
		} else {
			b.AddEdge(graph.NewUndirectedEdge(x, y))
		}
		hl.add(x, y)
	})
	return Result{Graph: b.Build(), Highlighted: hl.in(r.anchors)}
}

// pathEdges collects every edge lying on a qualifying path between two
// anchors. The anchors are kept as nodes even when nothing qualifies.
func (r *run) pathEdges(directed bool) Result {
	var es edgeSet
	hl := newHighlights()
	bound := r.cfg.PathBound()
	r.pairs(directed, func(x, y *graph.Node) {
		for p := range paths.AllPaths(r.g, x, y, bound, directed) {
			if !r.cfg.Comparator.Holds(paths.Length(p), bound) {
				continue
			}
			es.add(paths.EdgesOnPath(r.g, p, directed)...)
			hl.add(x, y)
		}
	})
	return Result{Graph: es.graph(r.g, r.anchors), Highlighted: hl.in(r.anchors)}
}

func (r *run) yStructures(filter motif.EdgeFilter) Result {
	var es edgeSet
	var hl []*graph.Node
	for _, z := range r.anchors {
		edges := motif.YStructureEdges(r.g, z, filter)
		if len(edges) == 0 {
			continue
		}
		es.add(edges...)
		hl = append(hl, z)
	}
	return Result{Graph: es.graph(r.g, nil), Highlighted: hl}
}

func (r *run) degree(kind degree.Kind) Result {
	nodes, edges := degree.Filter(r.g, r.anchors, kind, r.cfg.N, r.cfg.Comparator)
	var es edgeSet
	es.add(edges...)
	return Result{Graph: es.graph(r.g, nodes), Highlighted: nodes}
}

// edgeSet collects edges by value and returns them in key order.
type edgeSet struct {
	m btree.Map[string, *graph.Edge]
}

func (s *edgeSet) add(edges ...*graph.Edge) {
	for _, e := range edges {
		if e != nil {
			s.m.Set(e.Key(), e)
		}
	}
}

// graph builds a graph holding keep and every collected edge, with nodes
// in src order.
func (s *edgeSet) graph(src *graph.Graph, keep []*graph.Node) *graph.Graph {
	b := graph.NewBuilder(src)
	for _, n := range keep {
		b.AddNode(n)
	}
	s.m.Scan(func(_ string, e *graph.Edge) bool {
		b.AddEdge(e)
		return true
	})
	return b.Build()
}

type highlights map[*graph.Node]bool

func newHighlights() highlights { return make(highlights) }

func (h highlights) add(nodes ...*graph.Node) {
	for _, n := range nodes {
		h[n] = true
	}
}

// in returns the highlighted nodes in the order they appear in order.
func (h highlights) in(order []*graph.Node) []*graph.Node {
	var out []*graph.Node
	for _, n := range order {
		if h[n] {
			out = append(out, n)
		}
	}
	return out
}

func dedupeByName(nodes []*graph.Node) []*graph.Node {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]*graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, ok := seen[n.Name]; ok {
			continue
		}
		seen[n.Name] = struct{}{}
		out = append(out, n)
	}
	return out
}
