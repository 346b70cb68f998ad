package graph

import "fmt"

// Document is the serialized form of a graph shared by the JSON, YAML and
// TOML formats and by the embedded store.
type Document struct {
	Name  string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes []NodeDoc `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []EdgeDoc `json:"edges" yaml:"edges" toml:"edges"`
}

type NodeDoc struct {
	Name string   `json:"name" yaml:"name" toml:"name"`
	Type NodeType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

type EdgeDoc struct {
	Node1     string   `json:"node1" yaml:"node1" toml:"node1"`
	Node2     string   `json:"node2" yaml:"node2" toml:"node2"`
	Endpoint1 Endpoint `json:"endpoint1" yaml:"endpoint1" toml:"endpoint1"`
	Endpoint2 Endpoint `json:"endpoint2" yaml:"endpoint2" toml:"endpoint2"`
}

// NewEdgeDoc converts an edge.
func NewEdgeDoc(e *Edge) EdgeDoc {
	return EdgeDoc{
		Node1:     e.Node1.Name,
		Node2:     e.Node2.Name,
		Endpoint1: e.Endpoint1,
		Endpoint2: e.Endpoint2,
	}
}

// ToDocument converts g.
func ToDocument(name string, g *Graph) *Document {
	doc := &Document{
		Name:  name,
		Nodes: make([]NodeDoc, 0, g.NumNodes()),
		Edges: make([]EdgeDoc, 0, g.NumEdges()),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, NodeDoc{Name: n.Name, Type: n.Type})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, NewEdgeDoc(e))
	}
	return doc
}

// Graph builds the graph the document describes. Edge nodes missing from
// the node list are an error.
func (d *Document) Graph() (*Graph, error) {
	g := New()
	for _, nd := range d.Nodes {
		if nd.Name == "" {
			return nil, fmt.Errorf("node with empty name")
		}
		t := nd.Type
		if t == "" {
			t = NodeMeasured
		}
		if err := g.AddNode(&Node{Name: nd.Name, Type: t}); err != nil {
			return nil, err
		}
	}
	for i, ed := range d.Edges {
		e, err := ed.edge(g)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}
	}
	return g, nil
}

func (ed EdgeDoc) edge(g *Graph) (*Edge, error) {
	a := g.Node(ed.Node1)
	if a == nil {
		return nil, fmt.Errorf("%q: %w", ed.Node1, ErrUnknownNode)
	}
	b := g.Node(ed.Node2)
	if b == nil {
		return nil, fmt.Errorf("%q: %w", ed.Node2, ErrUnknownNode)
	}
	return NewEdge(a, b, ed.Endpoint1, ed.Endpoint2), nil
}
