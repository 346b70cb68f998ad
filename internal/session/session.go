// Package session owns a selection configuration over a set of base graphs
// and caches the derived graphs for the current configuration.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/logging"
	"github.com/imyousuf/graphselect/internal/metrics"
	"github.com/imyousuf/graphselect/internal/selection"
)

// ErrSearchTooLarge is returned when a path type would enumerate paths on a
// graph too large for the configured limits.
var ErrSearchTooLarge = errors.New("path search too large")

// Source is a named base graph.
type Source struct {
	Name  string
	Graph *graph.Graph
}

// Limits bounds path enumeration on large graphs. A zero field disables its
// check.
type Limits struct {
	MaxPathLength   int
	LargeGraphNodes int
}

// Check rejects a path type on a graph with more than LargeGraphNodes nodes
// when its path bound exceeds MaxPathLength.
func (l Limits) Check(cfg selection.Config, sources []Source) error {
	if !cfg.Type.IsPathType() || l.LargeGraphNodes <= 0 || l.MaxPathLength <= 0 {
		return nil
	}
	for _, src := range sources {
		if src.Graph.NumNodes() <= l.LargeGraphNodes {
			continue
		}
		if cfg.PathBound() > l.MaxPathLength {
			return fmt.Errorf("%s on %s (%d nodes): path length %d exceeds %d: %w",
				cfg.Type, src.Name, src.Graph.NumNodes(), cfg.PathBound(), l.MaxPathLength, ErrSearchTooLarge)
		}
	}
	return nil
}

// Run checks cfg against limits, then applies it to sources with the named
// anchors and records the selection metrics. It returns one result per
// source, in order.
func Run(sources []Source, anchors []string, cfg selection.Config, limits Limits) ([]selection.Result, error) {
	if err := limits.Check(cfg, sources); err != nil {
		return nil, err
	}
	graphs := make([]*graph.Graph, len(sources))
	for i, src := range sources {
		graphs[i] = src.Graph
	}
	nodes := make([]*graph.Node, len(anchors))
	for i, name := range anchors {
		nodes[i] = graph.NewNode(name)
	}

	started := time.Now()
	results, err := selection.Select(graphs, nodes, cfg)
	edges := make([]int, len(results))
	for i, r := range results {
		edges[i] = r.Graph.NumEdges()
	}
	metrics.ObserveSelection(cfg.Type.String(), started, edges, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Update changes several settings at once. Nil fields are left alone; a
// non-nil empty Anchors clears the anchors.
type Update struct {
	Type       *selection.Type     `json:"type,omitempty"`
	N          *int                `json:"n,omitempty"`
	Comparator *compare.Comparator `json:"comparator,omitempty"`
	Anchors    []string            `json:"anchors,omitempty"`
}

// Snapshot is the state of a session at one version together with the
// results computed for it.
type Snapshot struct {
	SessionID string             `json:"session_id"`
	Version   uint64             `json:"version"`
	Config    selection.Config   `json:"config"`
	Anchors   []string           `json:"anchors"`
	Graphs    []string           `json:"graphs"`
	Results   []selection.Result `json:"-"`
	Elapsed   time.Duration      `json:"elapsed"`
}

// Option configures a Session.
type Option func(*Session)

func WithLimits(l Limits) Option {
	return func(s *Session) { s.limits = l }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithConfig sets the initial selection configuration.
func WithConfig(cfg selection.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithAnchors sets the initial anchor names.
func WithAnchors(names ...string) Option {
	return func(s *Session) { s.anchors = slices.Clone(names) }
}

// Session holds one selection configuration. It is safe for concurrent use.
// Every mutation bumps the version; results computed for an older version
// are never cached or published.
type Session struct {
	id      ulid.ULID
	created time.Time
	logger  *slog.Logger
	limits  Limits
	group   singleflight.Group

	mu      sync.Mutex
	version uint64
	cfg     selection.Config
	anchors []string
	sources []Source
	cached  *Snapshot
	subs    map[int]func(*Snapshot)
	nextSub int
}

// New creates a session over sources. The initial configuration is the
// zero selection.Config (Subgraph) unless WithConfig says otherwise.
func New(sources []Source, opts ...Option) *Session {
	s := &Session{
		id:      ulid.Make(),
		created: time.Now(),
		logger:  logging.Discard(),
		sources: slices.Clone(sources),
		version: 1,
		subs:    make(map[int]func(*Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() ulid.ULID { return s.id }

func (s *Session) Created() time.Time { return s.created }

// Version is the current configuration version.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Config returns the current selection configuration.
func (s *Session) Config() selection.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Anchors returns the current anchor names.
func (s *Session) Anchors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.anchors)
}

// GraphNames returns the names of the base graphs in order.
func (s *Session) GraphNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sourceNames(s.sources)
}

func (s *Session) SetType(t selection.Type) error {
	return s.Apply(Update{Type: &t})
}

// SetN rejects a negative n.
func (s *Session) SetN(n int) error {
	return s.Apply(Update{N: &n})
}

func (s *Session) SetComparator(c compare.Comparator) error {
	return s.Apply(Update{Comparator: &c})
}

// SetAnchors replaces the anchors. Names missing from a graph are ignored
// for that graph.
func (s *Session) SetAnchors(names []string) error {
	if names == nil {
		names = []string{}
	}
	return s.Apply(Update{Anchors: names})
}

// SetGraphs replaces the base graphs.
func (s *Session) SetGraphs(sources []Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = slices.Clone(sources)
	s.bumpLocked()
}

// Apply validates u against the current configuration and applies it as a
// single version bump. An invalid update changes nothing.
func (s *Session) Apply(u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	if u.Type != nil {
		cfg.Type = *u.Type
	}
	if u.N != nil {
		cfg.N = *u.N
	}
	if u.Comparator != nil {
		cfg.Comparator = *u.Comparator
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	if u.Anchors != nil {
		s.anchors = slices.Clone(u.Anchors)
	}
	s.bumpLocked()
	return nil
}

func (s *Session) bumpLocked() {
	s.version++
	s.cached = nil
}

// Results returns the snapshot for the current version, computing it when
// the cache is stale. Concurrent callers at the same version share one
// computation. A computation overtaken by a mutation is dropped and redone
// for the newer version.
func (s *Session) Results(ctx context.Context) (*Snapshot, error) {
	for {
		s.mu.Lock()
		if s.cached != nil {
			snap := s.cached
			s.mu.Unlock()
			return snap, nil
		}
		version, cfg := s.version, s.cfg
		anchors := slices.Clone(s.anchors)
		sources := slices.Clone(s.sources)
		s.mu.Unlock()

		ch := s.group.DoChan(strconv.FormatUint(version, 10), func() (any, error) {
			snap, err := s.compute(version, cfg, anchors, sources)
			if err != nil {
				return nil, err
			}
			return s.publish(snap), nil
		})
		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-ch:
		}
		if res.Err != nil {
			return nil, res.Err
		}
		if snap := res.Val.(*Snapshot); snap != nil {
			return snap, nil
		}
	}
}

func (s *Session) compute(version uint64, cfg selection.Config, anchors []string, sources []Source) (*Snapshot, error) {
	started := time.Now()
	results, err := Run(sources, anchors, cfg, s.limits)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("selection computed",
		"session", s.id, "version", version, "config", cfg.String(),
		"anchors", len(anchors), "graphs", len(sources), "elapsed", time.Since(started))
	return &Snapshot{
		SessionID: s.id.String(),
		Version:   version,
		Config:    cfg,
		Anchors:   anchors,
		Graphs:    sourceNames(sources),
		Results:   results,
		Elapsed:   time.Since(started),
	}, nil
}

// publish caches snap and notifies subscribers when it is still current,
// returning the snapshot now cached for its version. It returns nil for a
// snapshot overtaken by a mutation.
func (s *Session) publish(snap *Snapshot) *Snapshot {
	s.mu.Lock()
	if snap.Version != s.version {
		s.mu.Unlock()
		s.logger.Debug("discarding stale selection", "session", s.id, "version", snap.Version)
		return nil
	}
	if s.cached != nil {
		cached := s.cached
		s.mu.Unlock()
		return cached
	}
	s.cached = snap
	subs := make([]func(*Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// Subscribe registers fn to receive every fresh snapshot. fn runs on the
// goroutine that computed the snapshot and must not block. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func sourceNames(sources []Source) []string {
	out := make([]string, len(sources))
	for i, src := range sources {
		out[i] = src.Name
	}
	return out
}
