package store

import (
	"context"
	"sync"

	"goscreen/domain/core"
	"goscreen/domain/screening"
)

// MemorySessionStore keeps live sessions in process memory. Each session's
// state is fully isolated; the store only guards the map, never the
// sessions themselves, so callers serialize per-session access.
type MemorySessionStore struct {
	sessions map[core.SessionID]*screening.Session
	mu       sync.RWMutex
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[core.SessionID]*screening.Session),
	}
}

// Save registers or replaces a session under its own ID.
func (s *MemorySessionStore) Save(ctx context.Context, session *screening.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return nil
}

// Get looks a session up by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id core.SessionID) (*screening.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id.String())
	}
	return session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *MemorySessionStore) Delete(ctx context.Context, id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// List returns all live sessions in unspecified order.
func (s *MemorySessionStore) List(ctx context.Context) ([]*screening.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*screening.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out, nil
}
