package interview

import (
	"fmt"
	"sync"
)

// Store defines session storage operations.
type Store interface {
	// Put saves a session keyed by its id.
	Put(session *Session) error

	// Get retrieves a session by id, failing with ErrSessionNotFound.
	Get(id string) (*Session, error)

	// List returns all sessions in insertion order.
	List() []*Session

	// Summary returns store-wide session counts.
	Summary() Summary
}

// Summary holds store-wide session counts.
type Summary struct {
	Active    int `json:"active_sessions"`
	Completed int `json:"completed_sessions"`
	Total     int `json:"total_sessions"`
}

// MemoryStore implements Store with a mutex-guarded in-process map.
//
// Sessions live for the lifetime of the process. There is no eviction:
// unbounded growth is an accepted limitation of this store, and a
// durable backend would replace it wholesale rather than extend it.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Put saves a session. New ids are appended to the insertion order.
func (s *MemoryStore) Put(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID()]; !ok {
		s.order = append(s.order, session.ID())
	}
	s.sessions[session.ID()] = session
	return nil
}

// Get retrieves a session by id.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// List returns all sessions in insertion order.
func (s *MemoryStore) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.order))
	for _, id := range s.order {
		sessions = append(sessions, s.sessions[id])
	}
	return sessions
}

// Summary returns counts of active, completed, and total sessions.
func (s *MemoryStore) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{Total: len(s.sessions)}
	for _, session := range s.sessions {
		switch session.Status() {
		case StatusActive:
			summary.Active++
		case StatusCompleted:
			summary.Completed++
		}
	}
	return summary
}

// Verify MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
