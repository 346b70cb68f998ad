// Package mcp exposes the graph catalog and the selection engine as MCP
// tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/session"
)

const serverName = "graphselect"

// NewServer creates an MCP server whose tools read graphs from store.
func NewServer(store graph.Store, version string, limits session.Limits, logger *slog.Logger) *mcp.Server {
	svc := NewService(store, limits, logger)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_graphs",
		Description: "List the base graphs stored in the catalog with their node and edge counts.",
	}, svc.ListGraphs)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_selection_types",
		Description: "List the selection types select_subgraph accepts and whether each uses n and the comparator.",
	}, svc.ListSelectionTypes)

	mcp.AddTool(s, &mcp.Tool{
		Name: "select_subgraph",
		Description: "Derive a graph from stored base graphs and anchor variables: neighbourhoods, " +
			"ancestors, descendants, Markov blankets, treks, paths, Y-structures or degree filters.",
	}, svc.SelectSubgraph)

	return s
}

// Run serves s on stdin and stdout until the client disconnects or ctx is
// cancelled.
func Run(ctx context.Context, s *mcp.Server) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
