package graph

import (
	"fmt"
	"strings"
)

// NodeType distinguishes observed variables from latent ones.
type NodeType string

const (
	NodeMeasured NodeType = "Measured"
	NodeLatent   NodeType = "Latent"
)

// Endpoint is the mark an edge carries at one of its two nodes.
type Endpoint int

const (
	Tail Endpoint = iota
	Arrow
	Circle
)

func (e Endpoint) String() string {
	switch e {
	case Tail:
		return "tail"
	case Arrow:
		return "arrow"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("Endpoint(%d)", int(e))
	}
}

// ParseEndpoint parses the lower-case name of an endpoint mark.
func ParseEndpoint(s string) (Endpoint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tail":
		return Tail, nil
	case "arrow":
		return Arrow, nil
	case "circle":
		return Circle, nil
	}
	return Tail, fmt.Errorf("unknown endpoint %q", s)
}

func (e Endpoint) MarshalText() ([]byte, error) {
	if e < Tail || e > Circle {
		return nil, fmt.Errorf("invalid endpoint %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Endpoint) UnmarshalText(text []byte) error {
	v, err := ParseEndpoint(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Node is a variable in a graph. Names are unique within one graph; the
// same name in two graphs denotes the same variable.
type Node struct {
	Name string   `json:"name"`
	Type NodeType `json:"type"`
}

// NewNode returns a measured node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name, Type: NodeMeasured}
}

// NewLatentNode returns a latent node with the given name.
func NewLatentNode(name string) *Node {
	return &Node{Name: name, Type: NodeLatent}
}

func (n *Node) String() string {
	if n.Type == NodeLatent {
		return "(" + n.Name + ")"
	}
	return n.Name
}

// EdgeKind classifies an edge by its pair of endpoint marks.
type EdgeKind string

const (
	KindDirected          EdgeKind = "directed"
	KindBidirected        EdgeKind = "bidirected"
	KindPartiallyOriented EdgeKind = "partially_oriented"
	KindNondirected       EdgeKind = "nondirected"
	KindUndirected        EdgeKind = "undirected"
	KindOther             EdgeKind = "other"
)

// Edge joins two nodes, carrying one endpoint mark at each of them.
// Edges compare by value: see Key.
type Edge struct {
	Node1     *Node
	Node2     *Node
	Endpoint1 Endpoint
	Endpoint2 Endpoint
}

// NewEdge returns an edge with the given endpoint marks.
func NewEdge(a, b *Node, e1, e2 Endpoint) *Edge {
	return &Edge{Node1: a, Node2: b, Endpoint1: e1, Endpoint2: e2}
}

// NewDirectedEdge returns a --> b.
func NewDirectedEdge(a, b *Node) *Edge { return NewEdge(a, b, Tail, Arrow) }

// NewUndirectedEdge returns a --- b.
func NewUndirectedEdge(a, b *Node) *Edge { return NewEdge(a, b, Tail, Tail) }

// NewBidirectedEdge returns a <-> b.
func NewBidirectedEdge(a, b *Node) *Edge { return NewEdge(a, b, Arrow, Arrow) }

// NewPartiallyOrientedEdge returns a o-> b.
func NewPartiallyOrientedEdge(a, b *Node) *Edge { return NewEdge(a, b, Circle, Arrow) }

// NewNondirectedEdge returns a o-o b.
func NewNondirectedEdge(a, b *Node) *Edge { return NewEdge(a, b, Circle, Circle) }

// IsDirected reports whether the edge has one tail and one arrow.
func (e *Edge) IsDirected() bool {
	return (e.Endpoint1 == Tail && e.Endpoint2 == Arrow) || (e.Endpoint1 == Arrow && e.Endpoint2 == Tail)
}

// IsPartiallyOriented reports whether the edge has one circle and one arrow.
func (e *Edge) IsPartiallyOriented() bool {
	return (e.Endpoint1 == Circle && e.Endpoint2 == Arrow) || (e.Endpoint1 == Arrow && e.Endpoint2 == Circle)
}

func (e *Edge) IsBidirected() bool  { return e.Endpoint1 == Arrow && e.Endpoint2 == Arrow }
func (e *Edge) IsUndirected() bool  { return e.Endpoint1 == Tail && e.Endpoint2 == Tail }
func (e *Edge) IsNondirected() bool { return e.Endpoint1 == Circle && e.Endpoint2 == Circle }

// Kind returns the classification used in statistics.
func (e *Edge) Kind() EdgeKind {
	switch {
	case e.IsDirected():
		return KindDirected
	case e.IsBidirected():
		return KindBidirected
	case e.IsPartiallyOriented():
		return KindPartiallyOriented
	case e.IsNondirected():
		return KindNondirected
	case e.IsUndirected():
		return KindUndirected
	default:
		return KindOther
	}
}

// Has reports whether n is one of the edge's nodes.
func (e *Edge) Has(n *Node) bool { return e.Node1 == n || e.Node2 == n }

// Traverse returns the node at the other end from n, or nil if n is not on
// the edge.
func (e *Edge) Traverse(n *Node) *Node {
	switch n {
	case e.Node1:
		return e.Node2
	case e.Node2:
		return e.Node1
	}
	return nil
}

// ProximalEndpoint returns the mark at n.
func (e *Edge) ProximalEndpoint(n *Node) Endpoint {
	if n == e.Node1 {
		return e.Endpoint1
	}
	return e.Endpoint2
}

// DistalEndpoint returns the mark at the end opposite n.
func (e *Edge) DistalEndpoint(n *Node) Endpoint {
	if n == e.Node1 {
		return e.Endpoint2
	}
	return e.Endpoint1
}

// PointsTowards reports whether the edge has an arrow at n and a tail or
// circle at the other end.
func (e *Edge) PointsTowards(n *Node) bool {
	if !e.Has(n) {
		return false
	}
	d := e.DistalEndpoint(n)
	return e.ProximalEndpoint(n) == Arrow && (d == Tail || d == Circle)
}

// Tail returns the tail node of a directed edge, or nil otherwise.
func (e *Edge) Tail() *Node {
	switch {
	case e.Endpoint1 == Tail && e.Endpoint2 == Arrow:
		return e.Node1
	case e.Endpoint1 == Arrow && e.Endpoint2 == Tail:
		return e.Node2
	}
	return nil
}

// Head returns the arrow node of a directed edge, or nil otherwise.
func (e *Edge) Head() *Node {
	if t := e.Tail(); t != nil {
		return e.Traverse(t)
	}
	return nil
}

// Key is the canonical value of an edge. The node pair is ordered by name
// and the endpoint marks follow their nodes, so A --> B and B <-- A share
// a key.
func (e *Edge) Key() string {
	a, b, e1, e2 := e.Node1.Name, e.Node2.Name, e.Endpoint1, e.Endpoint2
	if b < a {
		a, b, e1, e2 = b, a, e2, e1
	}
	return fmt.Sprintf("%s\x00%d%d\x00%s", a, e1, e2, b)
}

// Equal reports whether both edges have the same value.
func (e *Edge) Equal(o *Edge) bool {
	return e.Key() == o.Key()
}

// Symbol returns the three-character connector, e.g. "-->" or "o-o".
func (e *Edge) Symbol() string {
	var sb strings.Builder
	switch e.Endpoint1 {
	case Arrow:
		sb.WriteByte('<')
	case Circle:
		sb.WriteByte('o')
	default:
		sb.WriteByte('-')
	}
	sb.WriteByte('-')
	switch e.Endpoint2 {
	case Arrow:
		sb.WriteByte('>')
	case Circle:
		sb.WriteByte('o')
	default:
		sb.WriteByte('-')
	}
	return sb.String()
}

// ParseSymbol is the inverse of Symbol.
func ParseSymbol(s string) (Endpoint, Endpoint, error) {
	if len(s) != 3 || s[1] != '-' {
		return Tail, Tail, fmt.Errorf("malformed edge symbol %q", s)
	}
	var e1, e2 Endpoint
	switch s[0] {
	case '-':
		e1 = Tail
	case '<':
		e1 = Arrow
	case 'o':
		e1 = Circle
	default:
		return Tail, Tail, fmt.Errorf("malformed edge symbol %q", s)
	}
	switch s[2] {
	case '-':
		e2 = Tail
	case '>':
		e2 = Arrow
	case 'o':
		e2 = Circle
	default:
		return Tail, Tail, fmt.Errorf("malformed edge symbol %q", s)
	}
	return e1, e2, nil
}

func (e *Edge) String() string {
	return e.Node1.Name + " " + e.Symbol() + " " + e.Node2.Name
}

// GraphStats holds aggregate statistics about a graph.
type GraphStats struct {
	NodeCount   int              `json:"node_count"`
	EdgeCount   int              `json:"edge_count"`
	NodesByType map[NodeType]int `json:"nodes_by_type"`
	EdgesByKind map[EdgeKind]int `json:"edges_by_kind"`
}
