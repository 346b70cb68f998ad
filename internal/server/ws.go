package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imyousuf/graphselect/internal/session"
)

const writeWait = 10 * time.Second

// handleSessionSocket streams session snapshots over a websocket: the
// current one on connect, then every fresh one as updates land. Snapshots
// that arrive faster than the client reads are coalesced to the newest.
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "session", sess.ID(), "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan *session.Snapshot, 1)
	unsubscribe := sess.Subscribe(func(snap *session.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	// The client sends nothing we act on; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap, err := sess.Results(r.Context())
	if err != nil {
		s.sendError(conn, err)
	} else if err := s.send(conn, snap); err != nil {
		return
	}

	var last uint64
	if snap != nil {
		last = snap.Version
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if snap.Version <= last {
				continue
			}
			last = snap.Version
			if err := s.send(conn, snap); err != nil {
				s.logger.Debug("websocket write", "session", sess.ID(), "error", err)
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, snap *session.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(newSnapshotResponse(snap))
}

func (s *Server) sendError(conn *websocket.Conn, err error) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if werr := conn.WriteJSON(errorResponse{Error: err.Error()}); werr != nil {
		s.logger.Debug("websocket write", "error", werr)
	}
}
