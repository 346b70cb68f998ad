package mcp

import "github.com/imyousuf/graphselect/internal/graph"

type ListGraphsArgs struct{}

type ListGraphsResult struct {
	Graphs []graph.GraphInfo `json:"graphs"`
}

type ListSelectionTypesArgs struct{}

type SelectionType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UsesN       bool   `json:"uses_n"`
}

type ListSelectionTypesResult struct {
	Types []SelectionType `json:"types"`
}

type SelectSubgraphArgs struct {
	Graphs     []string `json:"graphs" jsonschema:"Names of the stored base graphs to select from"`
	Anchors    []string `json:"anchors,omitempty" jsonschema:"Names of the anchor variables"`
	Type       string   `json:"type,omitempty" jsonschema:"Selection type, e.g. Markov_Blankets or Directed_Paths. Defaults to Subgraph"`
	N          int      `json:"n,omitempty" jsonschema:"Path length offset or degree threshold for types that use it"`
	Comparator string   `json:"comparator,omitempty" jsonschema:"One of equals, atMost or atLeast. Defaults to atLeast"`
}

// SelectedGraph is one derived graph, with edges written in the
// "A --> B" notation.
type SelectedGraph struct {
	Graph       string   `json:"graph"`
	Nodes       []string `json:"nodes"`
	Edges       []string `json:"edges"`
	Highlighted []string `json:"highlighted"`
}

type SelectSubgraphResult struct {
	Config  string          `json:"config"`
	Results []SelectedGraph `json:"results"`
}
