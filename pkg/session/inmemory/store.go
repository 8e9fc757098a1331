// Package inmemory implements session.Store with a mutex-guarded map.
// This is the only store: timelines are not persisted across processes.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/kronoshq/kronos/pkg/session"
)

// Store implements session.Store using an in-memory map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*session.Session),
	}
}

// Create stores a session keyed by its id.
func (s *Store) Create(_ context.Context, sess *session.Session) (*session.Session, error) {
	if sess == nil {
		return nil, errors.New("cannot store nil session")
	}
	if sess.ID == "" {
		return nil, errors.New("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess.Clone()
	return sess, nil
}

// Get retrieves a copy of a session by id.
func (s *Store) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess.Clone(), nil
}

// List returns copies of all sessions.
func (s *Store) List(_ context.Context) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out, nil
}

// Mutate runs fn against the stored session under the write lock and returns
// a copy of the result.
func (s *Store) Mutate(_ context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// Delete removes a session. Absent ids no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
