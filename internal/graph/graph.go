package graph

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrUnknownNode   = errors.New("node not in graph")
	ErrSelfLoop      = errors.New("self loop")
)

// Graph is a mixed graph over named nodes. Node and edge lists keep
// insertion order. A Graph is not safe for concurrent mutation, but any
// number of goroutines may read it while nobody writes.
type Graph struct {
	nodes    []*Node
	byName   map[string]*Node
	edges    []*Edge
	keys     map[string]struct{}
	incident map[*Node][]*Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		byName:   make(map[string]*Node),
		keys:     make(map[string]struct{}),
		incident: make(map[*Node][]*Edge),
	}
}

// AddNode adds n. Adding the same node twice is a no-op; adding a different
// node with a name already in use fails with ErrDuplicateNode.
func (g *Graph) AddNode(n *Node) error {
	if existing, ok := g.byName[n.Name]; ok {
		if existing == n {
			return nil
		}
		return fmt.Errorf("add node %q: %w", n.Name, ErrDuplicateNode)
	}
	g.byName[n.Name] = n
	g.nodes = append(g.nodes, n)
	return nil
}

// EnsureNode returns the node called name, creating a measured one if the
// graph does not have it yet.
func (g *Graph) EnsureNode(name string) *Node {
	if n, ok := g.byName[name]; ok {
		return n
	}
	n := NewNode(name)
	g.byName[name] = n
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge adds e. Both nodes must already belong to the graph. Adding an
// edge equal to one already present is a no-op; other edges between the
// same pair are kept alongside it.
func (g *Graph) AddEdge(e *Edge) error {
	if !g.Contains(e.Node1) {
		return fmt.Errorf("add edge %s: %q: %w", e, e.Node1.Name, ErrUnknownNode)
	}
	if !g.Contains(e.Node2) {
		return fmt.Errorf("add edge %s: %q: %w", e, e.Node2.Name, ErrUnknownNode)
	}
	if e.Node1 == e.Node2 {
		return fmt.Errorf("add edge %s: %w", e, ErrSelfLoop)
	}
	key := e.Key()
	if _, ok := g.keys[key]; ok {
		return nil
	}
	g.keys[key] = struct{}{}
	g.edges = append(g.edges, e)
	g.incident[e.Node1] = append(g.incident[e.Node1], e)
	g.incident[e.Node2] = append(g.incident[e.Node2], e)
	return nil
}

func (g *Graph) AddDirectedEdge(from, to *Node) error {
	return g.AddEdge(NewDirectedEdge(from, to))
}

func (g *Graph) AddUndirectedEdge(a, b *Node) error {
	return g.AddEdge(NewUndirectedEdge(a, b))
}

func (g *Graph) AddBidirectedEdge(a, b *Node) error {
	return g.AddEdge(NewBidirectedEdge(a, b))
}

func (g *Graph) AddPartiallyOrientedEdge(from, to *Node) error {
	return g.AddEdge(NewPartiallyOrientedEdge(from, to))
}

func (g *Graph) AddNondirectedEdge(a, b *Node) error {
	return g.AddEdge(NewNondirectedEdge(a, b))
}

// Contains reports whether n is this graph's node of that name.
func (g *Graph) Contains(n *Node) bool {
	return n != nil && g.byName[n.Name] == n
}

// ContainsEdge reports whether an edge equal to e is present.
func (g *Graph) ContainsEdge(e *Edge) bool {
	_, ok := g.keys[e.Key()]
	return ok
}

// Node returns the node called name, or nil.
func (g *Graph) Node(name string) *Node {
	return g.byName[name]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) NumNodes() int { return len(g.nodes) }
func (g *Graph) NumEdges() int { return len(g.edges) }

// EdgesOf returns the edges incident to n.
func (g *Graph) EdgesOf(n *Node) []*Edge {
	es := g.incident[n]
	out := make([]*Edge, len(es))
	copy(out, es)
	return out
}

// EdgesBetween returns every edge joining a and b.
func (g *Graph) EdgesBetween(a, b *Node) []*Edge {
	var out []*Edge
	for _, e := range g.incident[a] {
		if e.Traverse(a) == b {
			out = append(out, e)
		}
	}
	return out
}

// Edge returns the first edge joining a and b, or nil.
func (g *Graph) Edge(a, b *Node) *Edge {
	for _, e := range g.incident[a] {
		if e.Traverse(a) == b {
			return e
		}
	}
	return nil
}

// DirectedEdge returns the edge from --> to, or nil.
func (g *Graph) DirectedEdge(from, to *Node) *Edge {
	for _, e := range g.incident[from] {
		if e.Tail() == from && e.Head() == to {
			return e
		}
	}
	return nil
}

// IsAdjacentTo reports whether some edge joins a and b.
func (g *Graph) IsAdjacentTo(a, b *Node) bool {
	return g.Edge(a, b) != nil
}

// AdjacentNodes returns the distinct neighbours of n in edge order.
func (g *Graph) AdjacentNodes(n *Node) []*Node {
	return g.neighbours(n, func(*Edge) bool { return true })
}

// Parents returns the nodes p with p --> n.
func (g *Graph) Parents(n *Node) []*Node {
	return g.neighbours(n, func(e *Edge) bool { return e.Head() == n })
}

// Children returns the nodes c with n --> c.
func (g *Graph) Children(n *Node) []*Node {
	return g.neighbours(n, func(e *Edge) bool { return e.Tail() == n })
}

func (g *Graph) neighbours(n *Node, keep func(*Edge) bool) []*Node {
	var out []*Node
	seen := make(map[*Node]struct{})
	for _, e := range g.incident[n] {
		if !keep(e) {
			continue
		}
		m := e.Traverse(n)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Resolve maps nodes, possibly from another graph, onto this graph's nodes
// by name. Names this graph does not have are dropped, as are repeats.
func (g *Graph) Resolve(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	seen := make(map[*Node]struct{}, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		m, ok := g.byName[n.Name]
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Subgraph returns the graph induced on nodes: the nodes of g named in
// nodes, and every edge of g between two of them. Order follows g.
func (g *Graph) Subgraph(nodes []*Node) *Graph {
	keep := make(map[*Node]struct{}, len(nodes))
	for _, n := range g.Resolve(nodes) {
		keep[n] = struct{}{}
	}
	sub := New()
	for _, n := range g.nodes {
		if _, ok := keep[n]; ok {
			sub.mustAddNode(n)
		}
	}
	for _, e := range g.edges {
		_, ok1 := keep[e.Node1]
		_, ok2 := keep[e.Node2]
		if ok1 && ok2 {
			sub.mustAddEdge(e)
		}
	}
	return sub
}

// Clone returns a copy sharing node values with g.
func (g *Graph) Clone() *Graph {
	return g.Subgraph(g.nodes)
}

// Stats counts nodes by type and edges by kind.
func (g *Graph) Stats() *GraphStats {
	st := &GraphStats{
		NodeCount:   len(g.nodes),
		EdgeCount:   len(g.edges),
		NodesByType: make(map[NodeType]int),
		EdgesByKind: make(map[EdgeKind]int),
	}
	for _, n := range g.nodes {
		st.NodesByType[n.Type]++
	}
	for _, e := range g.edges {
		st.EdgesByKind[e.Kind()]++
	}
	return st
}

// mustAddNode and mustAddEdge are for callers that copy from a graph whose
// invariants already hold.
func (g *Graph) mustAddNode(n *Node) {
	if err := g.AddNode(n); err != nil {
		panic(err)
	}
}

func (g *Graph) mustAddEdge(e *Edge) {
	if err := g.AddEdge(e); err != nil {
		panic(err)
	}
}

// Builder assembles a graph from nodes and edges that are known to belong
// to a source graph, keeping the source's node order.
type Builder struct {
	src   *Graph
	nodes map[*Node]struct{}
	edges []*Edge
}

// NewBuilder returns a Builder over src.
func NewBuilder(src *Graph) *Builder {
	return &Builder{src: src, nodes: make(map[*Node]struct{})}
}

// AddNode marks n for inclusion.
func (b *Builder) AddNode(n *Node) {
	b.nodes[n] = struct{}{}
}

// AddEdge marks e and both its nodes for inclusion.
func (b *Builder) AddEdge(e *Edge) {
	b.nodes[e.Node1] = struct{}{}
	b.nodes[e.Node2] = struct{}{}
	b.edges = append(b.edges, e)
}

// Build returns the graph: nodes in source order, edges in the order they
// were added.
func (b *Builder) Build() *Graph {
	out := New()
	for _, n := range b.src.nodes {
		if _, ok := b.nodes[n]; ok {
			out.mustAddNode(n)
		}
	}
	for _, e := range b.edges {
		out.mustAddEdge(e)
	}
	return out
}
