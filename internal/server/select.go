package server

import (
	"net/http"
	"time"

	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

type typeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UsesN       bool   `json:"uses_n"`
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	types := selection.Types()
	out := make([]typeInfo, len(types))
	for i, t := range types {
		out[i] = typeInfo{Name: t.String(), Description: t.Description(), UsesN: t.UsesN()}
	}
	writeJSON(w, http.StatusOK, out)
}

// selectRequest names catalog graphs and the rule to apply to them. An
// empty comparator means atLeast.
type selectRequest struct {
	Graphs     []string `json:"graphs"`
	Anchors    []string `json:"anchors"`
	Type       string   `json:"type"`
	N          int      `json:"n"`
	Comparator string   `json:"comparator"`
}

func (req selectRequest) config() (selection.Config, error) {
	typeName := req.Type
	if typeName == "" {
		typeName = selection.Subgraph.String()
	}
	return selection.ParseConfig(typeName, req.N, req.Comparator)
}

type selectResponse struct {
	Config  string                     `json:"config"`
	Results []selection.ResultDocument `json:"results"`
	Elapsed time.Duration              `json:"elapsed"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := req.config()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sources, err := s.loadSources(r.Context(), req.Graphs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	started := time.Now()
	results, err := session.Run(sources, req.Anchors, cfg, s.limits)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectResponse{
		Config:  cfg.String(),
		Results: selection.Documents(req.Graphs, results),
		Elapsed: time.Since(started),
	})
}

// snapshotResponse is a session snapshot with its results serialized.
type snapshotResponse struct {
	*session.Snapshot
	Results []selection.ResultDocument `json:"results"`
}

func newSnapshotResponse(snap *session.Snapshot) snapshotResponse {
	return snapshotResponse{
		Snapshot: snap,
		Results:  selection.Documents(snap.Graphs, snap.Results),
	}
}
