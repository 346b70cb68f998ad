package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// LayeredStore implements Store with two layers: a read-only shared catalog
// (typically a team-wide graph collection) and a read-write local catalog.
// Reads prefer the local layer; writes go to the local layer only.
type LayeredStore struct {
	shared Store
	local  Store
}

// NewLayeredStore creates a LayeredStore backed by the given shared and local stores.
// If shared and local are the same Store instance, it behaves as a single-store pass-through.
func NewLayeredStore(shared, local Store) *LayeredStore {
	return &LayeredStore{shared: shared, local: local}
}

func (ls *LayeredStore) PutGraph(ctx context.Context, name string, g *Graph) error {
	return ls.local.PutGraph(ctx, name, g)
}

func (ls *LayeredStore) DeleteGraph(ctx context.Context, name string) error {
	return ls.local.DeleteGraph(ctx, name)
}

func (ls *LayeredStore) GetGraph(ctx context.Context, name string) (*Graph, error) {
	// Local overrides shared.
	g, err := ls.local.GetGraph(ctx, name)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, ErrGraphNotFound) || ls.shared == ls.local {
		return nil, err
	}
	return ls.shared.GetGraph(ctx, name)
}

func (ls *LayeredStore) ListGraphs(ctx context.Context) ([]GraphInfo, error) {
	localInfos, err := ls.local.ListGraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local store: %w", err)
	}
	for i := range localInfos {
		localInfos[i].Source = SourceLocal
	}
	if ls.shared == ls.local {
		return localInfos, nil
	}
	sharedInfos, err := ls.shared.ListGraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shared store: %w", err)
	}

	seen := make(map[string]struct{}, len(localInfos))
	result := localInfos
	for _, info := range localInfos {
		seen[info.Name] = struct{}{}
	}
	for _, info := range sharedInfos {
		if _, ok := seen[info.Name]; ok {
			continue
		}
		info.Source = SourceShared
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Stats aggregates over the merged view, so a graph present in both layers
// is counted once.
func (ls *LayeredStore) Stats(ctx context.Context) (*StoreStats, error) {
	infos, err := ls.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}
	st := &StoreStats{
		NodesByType: make(map[NodeType]int),
		EdgesByKind: make(map[EdgeKind]int),
	}
	for _, info := range infos {
		g, err := ls.GetGraph(ctx, info.Name)
		if err != nil {
			return nil, fmt.Errorf("stats for %q: %w", info.Name, err)
		}
		st.Add(g.Stats())
	}
	return st, nil
}

func (ls *LayeredStore) Close() error {
	if ls.shared == ls.local {
		return ls.local.Close()
	}
	sharedErr := ls.shared.Close()
	localErr := ls.local.Close()
	if sharedErr != nil {
		return sharedErr
	}
	return localErr
}
