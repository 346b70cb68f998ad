package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/imyousuf/graphselect/internal/config"
	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/graph/embedded"
	"github.com/imyousuf/graphselect/internal/graph/format"
	"github.com/imyousuf/graphselect/internal/session"
)

// catalog is the opened graph catalog: the local store, layered over the
// shared one when store.shared_path is set.
type catalog struct {
	graph.Store
	local  *embedded.Store
	shared *embedded.Store
}

// openCatalog opens the catalog named by the config.
func openCatalog(cfg *config.Config) (*catalog, error) {
	local, err := embedded.NewStore(cfg.ResolvePath(cfg.Store.Path))
	if err != nil {
		return nil, fmt.Errorf("open graph store: %w", err)
	}
	c := &catalog{Store: local, local: local}
	if cfg.Store.SharedPath != "" {
		shared, err := embedded.NewStore(cfg.ResolvePath(cfg.Store.SharedPath))
		if err != nil {
			local.Close()
			return nil, fmt.Errorf("open shared graph store: %w", err)
		}
		c.shared = shared
		c.Store = graph.NewLayeredStore(shared, local)
	}
	return c, nil
}

func (c *catalog) Close() error {
	err := c.local.Close()
	if c.shared != nil {
		err = errors.Join(err, c.shared.Close())
	}
	return err
}

// graphRefs turns command arguments into graph references, falling back to
// the config's graphs when there are none.
func graphRefs(cfg *config.Config, args []string) ([]config.GraphRef, error) {
	if len(args) == 0 {
		refs := cfg.GraphRefs()
		if len(refs) == 0 {
			return nil, fmt.Errorf("no graphs given; pass graph files or store:<name>, or list them under graphs in the config")
		}
		return refs, nil
	}
	refs := make([]config.GraphRef, len(args))
	for i, a := range args {
		refs[i] = config.ParseGraphRef(a)
	}
	return refs, nil
}

// loadSources reads every referenced graph. The catalog is opened only when
// a reference needs it.
func loadSources(ctx context.Context, cfg *config.Config, refs []config.GraphRef) ([]session.Source, error) {
	var cat *catalog
	defer func() {
		if cat != nil {
			cat.Close()
		}
	}()
	sources := make([]session.Source, len(refs))
	for i, ref := range refs {
		if ref.StoreName == "" {
			g, err := format.LoadFile(ref.Path)
			if err != nil {
				return nil, err
			}
			sources[i] = session.Source{Name: format.GraphName(ref.Path), Graph: g}
			continue
		}
		if cat == nil {
			var err error
			if cat, err = openCatalog(cfg); err != nil {
				return nil, err
			}
		}
		g, err := cat.GetGraph(ctx, ref.StoreName)
		if err != nil {
			return nil, err
		}
		sources[i] = session.Source{Name: ref.StoreName, Graph: g}
	}
	return sources, nil
}

// nodeNames lists every node name across sources, sorted and deduplicated.
func nodeNames(sources []session.Source) []string {
	var names []string
	for _, src := range sources {
		for _, n := range src.Graph.Nodes() {
			names = append(names, n.Name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func limitsOf(cfg *config.Config) session.Limits {
	return session.Limits{
		MaxPathLength:   cfg.Limits.MaxPathLength,
		LargeGraphNodes: cfg.Limits.LargeGraphNodes,
	}
}
