package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/graph/format"
	"github.com/imyousuf/graphselect/internal/metrics"
	"github.com/imyousuf/graphselect/internal/session"
)

var contentTypes = map[format.Format]string{
	format.Text: "text/plain; charset=utf-8",
	format.JSON: "application/json",
	format.YAML: "application/yaml",
	format.TOML: "application/toml",
	format.DOT:  "text/vnd.graphviz",
}

// requestFormat reads ?format=, defaulting to JSON.
func requestFormat(r *http.Request) (format.Format, error) {
	v := r.URL.Query().Get("format")
	if v == "" {
		return format.JSON, nil
	}
	return format.Parse(v)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.ListGraphs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []graph.GraphInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := requestFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.store.GetGraph(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	if err := format.WriteNamed(w, name, g, f); err != nil {
		s.logger.Error("write graph", "graph", name, "format", f, "error", err)
	}
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := requestFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := format.Read(http.MaxBytesReader(w, r.Body, maxBody), f)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read %s graph: %v: %w", f, err, errBadRequest))
		return
	}
	if err := s.store.PutGraph(r.Context(), name, g); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.observeCatalog(r.Context())
	s.logger.Info("graph stored", "graph", name, "nodes", g.NumNodes(), "edges", g.NumEdges())
	writeJSON(w, http.StatusCreated, graph.GraphInfo{
		Name:      name,
		NodeCount: g.NumNodes(),
		EdgeCount: g.NumEdges(),
	})
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.DeleteGraph(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.observeCatalog(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) observeCatalog(ctx context.Context) {
	infos, err := s.store.ListGraphs(ctx)
	if err != nil {
		s.logger.Warn("list graphs for metrics", "error", err)
		return
	}
	metrics.ObserveCatalog(infos)
}

// loadSources fetches the named graphs from the catalog, in order.
func (s *Server) loadSources(ctx context.Context, names []string) ([]session.Source, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no graphs named: %w", errBadRequest)
	}
	sources := make([]session.Source, len(names))
	for i, name := range names {
		g, err := s.store.GetGraph(ctx, name)
		if err != nil {
			return nil, err
		}
		sources[i] = session.Source{Name: name, Graph: g}
	}
	return sources, nil
}
