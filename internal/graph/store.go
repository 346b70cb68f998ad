package graph

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrGraphNotFound is returned by a Store when no graph has the requested name.
var ErrGraphNotFound = errors.New("graph not found")

// Graph sources reported by LayeredStore.
const (
	SourceLocal  = "local"
	SourceShared = "shared"
)

// GraphInfo describes a stored graph without loading it.
type GraphInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source,omitempty"`
}

// StoreStats holds aggregate statistics over every graph in a store.
type StoreStats struct {
	GraphCount  int              `json:"graph_count"`
	NodeCount   int              `json:"node_count"`
	EdgeCount   int              `json:"edge_count"`
	NodesByType map[NodeType]int `json:"nodes_by_type"`
	EdgesByKind map[EdgeKind]int `json:"edges_by_kind"`
}

// Add folds the statistics of one graph into s.
func (s *StoreStats) Add(gs *GraphStats) {
	if s.NodesByType == nil {
		s.NodesByType = make(map[NodeType]int)
	}
	if s.EdgesByKind == nil {
		s.EdgesByKind = make(map[EdgeKind]int)
	}
	s.GraphCount++
	s.NodeCount += gs.NodeCount
	s.EdgeCount += gs.EdgeCount
	for k, v := range gs.NodesByType {
		s.NodesByType[k] += v
	}
	for k, v := range gs.EdgesByKind {
		s.EdgesByKind[k] += v
	}
}

// Store is a catalog of named graphs.
type Store interface {
	// PutGraph stores g under name, replacing any graph already there.
	PutGraph(ctx context.Context, name string, g *Graph) error

	// GetGraph loads the graph called name. It returns an error wrapping
	// ErrGraphNotFound when there is none.
	GetGraph(ctx context.Context, name string) (*Graph, error)

	// ListGraphs describes every stored graph, sorted by name.
	ListGraphs(ctx context.Context) ([]GraphInfo, error)

	// DeleteGraph removes the graph called name.
	DeleteGraph(ctx context.Context, name string) error

	// Stats returns aggregate statistics over the catalog.
	Stats(ctx context.Context) (*StoreStats, error)

	// Close releases resources held by the store.
	Close() error
}

// Exporter writes every stored graph to w.
type Exporter interface {
	Export(ctx context.Context, w io.Writer) error
}

// Importer reads graphs from r, replacing everything stored.
type Importer interface {
	Import(ctx context.Context, r io.Reader) error
}
