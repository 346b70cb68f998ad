package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/imyousuf/graphselect/internal/graph"
)

const (
	nodesHeader = "Graph Nodes:"
	edgesHeader = "Graph Edges:"
)

// ReadText parses the Tetrad text format:
//
//	Graph Nodes:
//	X;Y;(L)
//
//	Graph Edges:
//	1. X --> Y
//	2. L o-> Y
//
// Parenthesized node names are latent. Anything after the third field of an
// edge line is ignored. Each section ends at a blank line.
func ReadText(r io.Reader) (*graph.Graph, error) {
	g := graph.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	section := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == nodesHeader || line == edgesHeader:
			section = line
			continue
		case line == "":
			section = ""
			continue
		}
		switch section {
		case nodesHeader:
			if err := readTextNodes(g, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case edgesHeader:
			if err := readTextEdge(g, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func readTextNodes(g *graph.Graph, line string) error {
	for _, tok := range strings.FieldsFunc(line, func(r rune) bool { return r == ';' || r == ',' }) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n := graph.NewNode(tok)
		if name, ok := unwrap(tok, '(', ')'); ok {
			n = graph.NewLatentNode(name)
		} else if name, ok := unwrap(tok, '[', ']'); ok {
			n = graph.NewNode(name)
		}
		if err := g.AddNode(n); err != nil {
			return err
		}
	}
	return nil
}

func readTextEdge(g *graph.Graph, line string) error {
	fields := strings.Fields(stripLineNumber(line))
	if len(fields) < 3 {
		return fmt.Errorf("malformed edge %q", line)
	}
	e1, e2, err := graph.ParseSymbol(fields[1])
	if err != nil {
		return err
	}
	a, err := textNode(g, fields[0])
	if err != nil {
		return err
	}
	b, err := textNode(g, fields[2])
	if err != nil {
		return err
	}
	return g.AddEdge(graph.NewEdge(a, b, e1, e2))
}

func textNode(g *graph.Graph, tok string) (*graph.Node, error) {
	if name, ok := unwrap(tok, '(', ')'); ok {
		tok = name
	}
	n := g.Node(tok)
	if n == nil {
		return nil, fmt.Errorf("%q: %w", tok, graph.ErrUnknownNode)
	}
	return n, nil
}

// stripLineNumber removes a leading "12." or "12. " counter.
func stripLineNumber(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return line
	}
	return strings.TrimSpace(line[i+1:])
}

func unwrap(s string, left, right byte) (string, bool) {
	if len(s) >= 2 && s[0] == left && s[len(s)-1] == right {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// WriteText writes g in the Tetrad text format.
func WriteText(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, nodesHeader)
	names := make([]string, 0, g.NumNodes())
	for _, n := range g.Nodes() {
		names = append(names, n.String())
	}
	fmt.Fprintln(bw, strings.Join(names, ";"))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, edgesHeader)
	for i, e := range g.Edges() {
		fmt.Fprintf(bw, "%d. %s\n", i+1, e)
	}
	return bw.Flush()
}
