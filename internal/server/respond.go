package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/graph/embedded"
	"github.com/imyousuf/graphselect/internal/graph/format"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

// maxBody caps request bodies, graph uploads included.
const maxBody = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as a JSON error body.
// Server-side failures are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrGraphNotFound), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSearchTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, selection.ErrUnknownType),
		errors.Is(err, selection.ErrNegativeN),
		errors.Is(err, compare.ErrUnknownComparator),
		errors.Is(err, format.ErrUnknownFormat),
		errors.Is(err, embedded.ErrInvalidName),
		errors.Is(err, graph.ErrDuplicateNode),
		errors.Is(err, graph.ErrUnknownNode),
		errors.Is(err, graph.ErrSelfLoop):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %v: %w", err, errBadRequest)
	}
	return nil
}
