package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/render"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

// refreshTimeout bounds the background computation started after an update.
const refreshTimeout = time.Minute

type sessionView struct {
	ID      string    `json:"id"`
	Version uint64    `json:"version"`
	Config  string    `json:"config"`
	Type    string    `json:"type"`
	N       int       `json:"n"`
	Compare string    `json:"comparator"`
	Anchors []string  `json:"anchors"`
	Graphs  []string  `json:"graphs"`
	Created time.Time `json:"created"`
}

func viewOf(sess *session.Session) sessionView {
	cfg := sess.Config()
	return sessionView{
		ID:      sess.ID().String(),
		Version: sess.Version(),
		Config:  cfg.String(),
		Type:    cfg.Type.String(),
		N:       cfg.N,
		Compare: cfg.Comparator.String(),
		Anchors: sess.Anchors(),
		Graphs:  sess.GraphNames(),
		Created: sess.Created(),
	}
}

// updateRequest is the body of PATCH /v1/sessions/{id}. Absent fields are
// left alone; an empty anchors list clears the anchors.
type updateRequest struct {
	Type       *string  `json:"type"`
	N          *int     `json:"n"`
	Comparator *string  `json:"comparator"`
	Anchors    []string `json:"anchors"`
	Graphs     []string `json:"graphs"`
}

func (req updateRequest) update() (session.Update, error) {
	var u session.Update
	if req.Type != nil {
		t, err := selection.ParseType(*req.Type)
		if err != nil {
			return u, err
		}
		u.Type = &t
	}
	if req.Comparator != nil {
		c, err := compare.Parse(*req.Comparator)
		if err != nil {
			return u, err
		}
		u.Comparator = &c
	}
	u.N = req.N
	u.Anchors = req.Anchors
	return u, nil
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.sessions.List()
	out := make([]sessionView, len(sessions))
	for i, sess := range sessions {
		out[i] = viewOf(sess)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
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
	sess := s.sessions.Create(sources,
		session.WithConfig(cfg),
		session.WithAnchors(req.Anchors...),
		session.WithLimits(s.limits),
		session.WithLogger(s.logger),
	)
	s.logger.Info("session created", "session", sess.ID(), "graphs", req.Graphs, "config", cfg.String())
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// handleUpdateSession applies a configuration change and starts computing
// the new results so websocket subscribers receive them.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Graphs != nil {
		sources, err := s.loadSources(r.Context(), req.Graphs)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := sess.Apply(u); err != nil {
			s.writeError(w, r, err)
			return
		}
		sess.SetGraphs(sources)
	} else if err := sess.Apply(u); err != nil {
		s.writeError(w, r, err)
		return
	}
	go s.refresh(sess)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) refresh(sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if _, err := sess.Results(ctx); err != nil {
		s.logger.Warn("refresh session", "session", sess.ID(), "error", err)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionResults(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Results(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleSessionRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Results(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	o := render.Options{Title: fmt.Sprintf("graphselect: %s", snap.Config)}
	if err := render.HTML(w, snap.Results, snap.Graphs, o); err != nil {
		s.logger.Error("render session", "session", sess.ID(), "error", err)
	}
}
