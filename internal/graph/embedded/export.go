package embedded

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/imyousuf/graphselect/internal/graph"
)

// exportRecord is the JSON-lines format for export/import.
type exportRecord struct {
	Kind string          `json:"kind"` // "graph"
	Data json.RawMessage `json:"data"`
}

const kindGraph = "graph"

// Export writes every graph to w in JSON-lines format, one record per graph.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	infos, err := s.ListGraphs(ctx)
	if err != nil {
		return fmt.Errorf("list graphs: %w", err)
	}
	enc := json.NewEncoder(w)
	for _, info := range infos {
		g, err := s.GetGraph(ctx, info.Name)
		if err != nil {
			return fmt.Errorf("export %s: %w", info.Name, err)
		}
		data, err := json.Marshal(graph.ToDocument(info.Name, g))
		if err != nil {
			return fmt.Errorf("marshal %s: %w", info.Name, err)
		}
		if err := enc.Encode(exportRecord{Kind: kindGraph, Data: data}); err != nil {
			return fmt.Errorf("encode %s: %w", info.Name, err)
		}
	}
	return nil
}

// Import reads JSON-lines from r, clears the store, and inserts all records.
func (s *Store) Import(ctx context.Context, r io.Reader) error {
	// Clear all existing data.
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	scanner := bufio.NewScanner(r)
	// Increase buffer for potentially large lines.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec exportRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("line %d: unmarshal record: %w", line, err)
		}
		if rec.Kind != kindGraph {
			return fmt.Errorf("line %d: unknown record kind: %q", line, rec.Kind)
		}
		var doc graph.Document
		if err := json.Unmarshal(rec.Data, &doc); err != nil {
			return fmt.Errorf("line %d: unmarshal graph: %w", line, err)
		}
		g, err := doc.Graph()
		if err != nil {
			return fmt.Errorf("line %d: graph %s: %w", line, doc.Name, err)
		}
		if err := s.PutGraph(ctx, doc.Name, g); err != nil {
			return fmt.Errorf("import graph %s: %w", doc.Name, err)
		}
	}

	return scanner.Err()
}
