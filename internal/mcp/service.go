package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

// Service implements the tool handlers.
type Service struct {
	store  graph.Store
	limits session.Limits
	logger *slog.Logger
}

func NewService(store graph.Store, limits session.Limits, logger *slog.Logger) *Service {
	return &Service{store: store, limits: limits, logger: logger}
}

func (s *Service) ListGraphs(ctx context.Context, _ *mcp.CallToolRequest, _ ListGraphsArgs) (*mcp.CallToolResult, ListGraphsResult, error) {
	infos, err := s.store.ListGraphs(ctx)
	if err != nil {
		return nil, ListGraphsResult{}, err
	}
	if infos == nil {
		infos = []graph.GraphInfo{}
	}
	return nil, ListGraphsResult{Graphs: infos}, nil
}

func (s *Service) ListSelectionTypes(_ context.Context, _ *mcp.CallToolRequest, _ ListSelectionTypesArgs) (*mcp.CallToolResult, ListSelectionTypesResult, error) {
	types := selection.Types()
	out := make([]SelectionType, len(types))
	for i, t := range types {
		out[i] = SelectionType{Name: t.String(), Description: t.Description(), UsesN: t.UsesN()}
	}
	return nil, ListSelectionTypesResult{Types: out}, nil
}

func (s *Service) SelectSubgraph(ctx context.Context, _ *mcp.CallToolRequest, args SelectSubgraphArgs) (*mcp.CallToolResult, SelectSubgraphResult, error) {
	typeName := args.Type
	if typeName == "" {
		typeName = selection.Subgraph.String()
	}
	cfg, err := selection.ParseConfig(typeName, args.N, args.Comparator)
	if err != nil {
		return nil, SelectSubgraphResult{}, err
	}
	if len(args.Graphs) == 0 {
		return nil, SelectSubgraphResult{}, fmt.Errorf("at least one graph is required")
	}

	sources := make([]session.Source, len(args.Graphs))
	for i, name := range args.Graphs {
		g, err := s.store.GetGraph(ctx, name)
		if err != nil {
			return nil, SelectSubgraphResult{}, err
		}
		sources[i] = session.Source{Name: name, Graph: g}
	}

	started := time.Now()
	results, err := session.Run(sources, args.Anchors, cfg, s.limits)
	if err != nil {
		return nil, SelectSubgraphResult{}, err
	}
	s.logger.Info("mcp selection", "config", cfg.String(), "graphs", args.Graphs, "elapsed", time.Since(started))

	out := SelectSubgraphResult{Config: cfg.String(), Results: make([]SelectedGraph, len(results))}
	for i, r := range results {
		out.Results[i] = selectedGraph(args.Graphs[i], r)
	}
	return nil, out, nil
}

func selectedGraph(name string, r selection.Result) SelectedGraph {
	sg := SelectedGraph{
		Graph:       name,
		Nodes:       make([]string, 0, r.Graph.NumNodes()),
		Edges:       make([]string, 0, r.Graph.NumEdges()),
		Highlighted: make([]string, 0, len(r.Highlighted)),
	}
	for _, n := range r.Graph.Nodes() {
		sg.Nodes = append(sg.Nodes, n.String())
	}
	for _, e := range r.Graph.Edges() {
		sg.Edges = append(sg.Edges, e.String())
	}
	for _, n := range r.Highlighted {
		sg.Highlighted = append(sg.Highlighted, n.Name)
	}
	return sg
}
