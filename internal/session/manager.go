package session

import (
	"errors"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/imyousuf/graphselect/internal/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager holds sessions by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[ulid.ULID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[ulid.ULID]*Session)}
}

// Create starts a session and registers it.
func (m *Manager) Create(sources []Source, opts ...Option) *Session {
	s := New(sources, opts...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return s
}

// Get looks a session up by its string ID.
func (m *Manager) Get(id string) (*Session, error) {
	key, err := ulid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	key, err := ulid.Parse(id)
	if err != nil {
		return ErrSessionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[key]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return nil
}

// List returns every session, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Session) int { return a.ID().Compare(b.ID()) })
	return out
}
