package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/imyousuf/graphselect/internal/graph"
)

const highlightColor = "#f4a261"

// WriteDOT writes g as a Graphviz digraph. Every edge carries dir=both with
// explicit arrowtail and arrowhead so all six edge kinds render faithfully.
// Highlighted nodes are filled.
func WriteDOT(w io.Writer, g *graph.Graph, highlighted []*graph.Node) error {
	return WriteDOTNamed(w, "", g, highlighted)
}

// WriteDOTNamed is WriteDOT with the digraph called name ("G" when empty).
func WriteDOTNamed(w io.Writer, name string, g *graph.Graph, highlighted []*graph.Node) error {
	if name == "" {
		name = "G"
	}
	hl := make(map[string]bool, len(highlighted))
	for _, n := range highlighted {
		hl[n.Name] = true
	}
	out := gographviz.NewEscape()
	if err := out.SetName(name); err != nil {
		return err
	}
	if err := out.SetDir(true); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		attrs := map[string]string{}
		if n.Type == graph.NodeLatent {
			attrs[string(gographviz.Shape)] = "ellipse"
			attrs[string(gographviz.Style)] = "dashed"
		}
		if hl[n.Name] {
			style := "filled"
			if s, ok := attrs[string(gographviz.Style)]; ok {
				style = s + ",filled"
			}
			attrs[string(gographviz.Style)] = style
			attrs[string(gographviz.FillColor)] = highlightColor
		}
		if err := out.AddNode(name, n.Name, attrs); err != nil {
			return fmt.Errorf("node %s: %w", n.Name, err)
		}
	}
	for _, e := range g.Edges() {
		attrs := map[string]string{
			string(gographviz.Dir):       "both",
			string(gographviz.ArrowTail): arrowName(e.Endpoint1),
			string(gographviz.ArrowHead): arrowName(e.Endpoint2),
		}
		if err := out.AddEdge(e.Node1.Name, e.Node2.Name, true, attrs); err != nil {
			return fmt.Errorf("edge %s: %w", e, err)
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}

func arrowName(e graph.Endpoint) string {
	switch e {
	case graph.Arrow:
		return "normal"
	case graph.Circle:
		return "odot"
	default:
		return "none"
	}
}

func arrowEndpoint(s string) graph.Endpoint {
	switch s {
	case "none", "":
		return graph.Tail
	case "odot", "dot", "circle", "ocircle":
		return graph.Circle
	default:
		return graph.Arrow
	}
}

// ReadDOT parses a Graphviz graph. In a digraph an edge is tail to arrow
// unless dir, arrowtail or arrowhead say otherwise; in an undirected graph
// edges default to tail on both ends. Nodes styled dashed are latent.
func ReadDOT(r io.Reader) (*graph.Graph, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	parsed, err := gographviz.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	g := graph.New()
	for _, pn := range parsed.Nodes.Nodes {
		name := unquote(pn.Name)
		if g.Node(name) != nil {
			continue
		}
		n := graph.NewNode(name)
		if strings.Contains(unquote(pn.Attrs[gographviz.Style]), "dashed") {
			n = graph.NewLatentNode(name)
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, pe := range parsed.Edges.Edges {
		a := g.EnsureNode(unquote(pe.Src))
		b := g.EnsureNode(unquote(pe.Dst))
		e1, e2 := dotEndpoints(parsed.Directed, pe.Attrs)
		if err := g.AddEdge(graph.NewEdge(a, b, e1, e2)); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", a.Name, b.Name, err)
		}
	}
	return g, nil
}

func dotEndpoints(directed bool, attrs gographviz.Attrs) (graph.Endpoint, graph.Endpoint) {
	dir := unquote(attrs[gographviz.Dir])
	if dir == "" {
		dir = "none"
		if directed {
			dir = "forward"
		}
	}
	tail, head := "none", "none"
	switch dir {
	case "forward":
		head = "normal"
	case "back":
		tail = "normal"
	case "both":
		tail, head = "normal", "normal"
	}
	if v, ok := attrs[gographviz.ArrowTail]; ok && dir != "forward" {
		tail = unquote(v)
	}
	if v, ok := attrs[gographviz.ArrowHead]; ok && dir != "back" {
		head = unquote(v)
	}
	if dir == "none" {
		tail, head = "none", "none"
	}
	return arrowEndpoint(tail), arrowEndpoint(head)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
