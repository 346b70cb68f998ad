package embedded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/imyousuf/graphselect/internal/graph"
)

// Key prefixes for the BadgerDB key scheme.
const (
	prefixGraph   = "g:"
	prefixNode    = "n:"
	prefixEdge    = "e:"
	prefixIdxType = "idx:type:"
)

// ErrInvalidName is returned for graph names the key scheme cannot hold.
var ErrInvalidName = errors.New("invalid graph name")

// Store implements graph.Store using BadgerDB. Each graph is kept as one
// metadata record plus one record per node and per edge, keyed by a
// zero-padded sequence number so prefix scans return creation order.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore opens (or creates) a BadgerDB-backed graph catalog at dbPath.
func NewStore(dbPath string) (*Store, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // suppress badger logs
	return open(opts)
}

// NewInMemoryStore returns a catalog that lives only as long as the process.
func NewInMemoryStore() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// ValidateName reports whether name can be used as a graph name.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, ":\x00") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

func graphKey(name string) []byte { return []byte(prefixGraph + name) }

func nodeKey(name string, seq int) []byte {
	return []byte(fmt.Sprintf("%s%s:%08d", prefixNode, name, seq))
}

func edgeKey(name string, seq int) []byte {
	return []byte(fmt.Sprintf("%s%s:%08d", prefixEdge, name, seq))
}

// indexTypeKey returns a secondary index key for node type lookup.
func indexTypeKey(name string, nodeType graph.NodeType, node string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s", prefixIdxType, name, nodeType, node))
}

func graphPrefixes(name string) []string {
	return []string{
		prefixNode + name + ":",
		prefixEdge + name + ":",
		prefixIdxType + name + ":",
		prefixGraph + name,
	}
}

func (s *Store) PutGraph(_ context.Context, name string, g *graph.Graph) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.deleteGraphKeys(name); err != nil {
		return fmt.Errorf("clear graph %s: %w", name, err)
	}

	info := graph.GraphInfo{
		Name:      name,
		NodeCount: g.NumNodes(),
		EdgeCount: g.NumEdges(),
		UpdatedAt: s.now().UTC(),
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal graph info: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i, n := range g.Nodes() {
		nd, err := json.Marshal(graph.NodeDoc{Name: n.Name, Type: n.Type})
		if err != nil {
			return fmt.Errorf("marshal node: %w", err)
		}
		if err := wb.Set(nodeKey(name, i), nd); err != nil {
			return err
		}
		if err := wb.Set(indexTypeKey(name, n.Type, n.Name), nil); err != nil {
			return err
		}
	}
	for i, e := range g.Edges() {
		ed, err := json.Marshal(graph.NewEdgeDoc(e))
		if err != nil {
			return fmt.Errorf("marshal edge: %w", err)
		}
		if err := wb.Set(edgeKey(name, i), ed); err != nil {
			return err
		}
	}
	// The metadata record goes last so a reader never sees a graph whose
	// nodes are still being written.
	if err := wb.Set(graphKey(name), data); err != nil {
		return err
	}
	return wb.Flush()
}

func (s *Store) GetGraph(_ context.Context, name string) (*graph.Graph, error) {
	doc := &graph.Document{Name: name}
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(graphKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("graph %q: %w", name, graph.ErrGraphNotFound)
			}
			return err
		}
		if err := scanValues(txn, []byte(prefixNode+name+":"), func(val []byte) error {
			var nd graph.NodeDoc
			if err := json.Unmarshal(val, &nd); err != nil {
				return fmt.Errorf("unmarshal node: %w", err)
			}
			doc.Nodes = append(doc.Nodes, nd)
			return nil
		}); err != nil {
			return err
		}
		return scanValues(txn, []byte(prefixEdge+name+":"), func(val []byte) error {
			var ed graph.EdgeDoc
			if err := json.Unmarshal(val, &ed); err != nil {
				return fmt.Errorf("unmarshal edge: %w", err)
			}
			doc.Edges = append(doc.Edges, ed)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return doc.Graph()
}

func (s *Store) ListGraphs(_ context.Context) ([]graph.GraphInfo, error) {
	var infos []graph.GraphInfo
	err := s.db.View(func(txn *badger.Txn) error {
		return scanValues(txn, []byte(prefixGraph), func(val []byte) error {
			var info graph.GraphInfo
			if err := json.Unmarshal(val, &info); err != nil {
				return fmt.Errorf("unmarshal graph info: %w", err)
			}
			infos = append(infos, info)
			return nil
		})
	})
	return infos, err
}

func (s *Store) DeleteGraph(_ context.Context, name string) error {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(graphKey(name))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("graph %q: %w", name, graph.ErrGraphNotFound)
	}
	if err != nil {
		return err
	}
	return s.deleteGraphKeys(name)
}

// NodesOfType returns the names of the nodes of the given type in a graph,
// read from the type index.
func (s *Store) NodesOfType(_ context.Context, name string, nodeType graph.NodeType) ([]string, error) {
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanIndexPrefix(txn, []byte(fmt.Sprintf("%s%s:%s:", prefixIdxType, name, nodeType)))
		return err
	})
	return out, err
}

func (s *Store) Stats(ctx context.Context) (*graph.StoreStats, error) {
	infos, err := s.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}
	stats := &graph.StoreStats{
		NodesByType: make(map[graph.NodeType]int),
		EdgesByKind: make(map[graph.EdgeKind]int),
	}
	err = s.db.View(func(txn *badger.Txn) error {
		for _, info := range infos {
			stats.GraphCount++
			stats.NodeCount += info.NodeCount
			stats.EdgeCount += info.EdgeCount
			for _, t := range []graph.NodeType{graph.NodeMeasured, graph.NodeLatent} {
				names, err := scanIndexPrefix(txn, []byte(fmt.Sprintf("%s%s:%s:", prefixIdxType, info.Name, t)))
				if err != nil {
					return err
				}
				stats.NodesByType[t] += len(names)
			}
			if err := scanValues(txn, []byte(prefixEdge+info.Name+":"), func(val []byte) error {
				var ed graph.EdgeDoc
				if err := json.Unmarshal(val, &ed); err != nil {
					return nil
				}
				e := graph.NewEdge(graph.NewNode(ed.Node1), graph.NewNode(ed.Node2), ed.Endpoint1, ed.Endpoint2)
				stats.EdgesByKind[e.Kind()]++
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return stats, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) deleteGraphKeys(name string) error {
	for _, prefix := range graphPrefixes(name) {
		if err := s.deleteKeysByPrefix([]byte(prefix), prefix == prefixGraph+name); err != nil {
			return fmt.Errorf("delete graph %s prefix %s: %w", name, prefix, err)
		}
	}
	return nil
}

// deleteKeysByPrefix removes all keys with the given prefix. With exact set,
// only the key equal to the prefix is removed.
func (s *Store) deleteKeysByPrefix(prefix []byte, exact bool) error {
	// Collect keys first, then delete in batches.
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if exact && len(key) != len(prefix) {
				continue
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Delete in batches to avoid transaction size limits.
	const batchSize = 1000
	for i := 0; i < len(keys); i += batchSize {
		end := min(i+batchSize, len(keys))
		batch := keys[i:end]
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, key := range batch {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

// scanIndexPrefix scans all keys with the given prefix and returns what
// follows the prefix in each.
func scanIndexPrefix(txn *badger.Txn, prefix []byte) ([]string, error) {
	var ids []string
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		if len(key) > len(prefix) {
			ids = append(ids, string(key[len(prefix):]))
		}
	}
	return ids, nil
}

// scanValues calls fn with the value of every key under prefix, in key order.
func scanValues(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
