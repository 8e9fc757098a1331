package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no session has the requested id.
var ErrNotFound = errors.New("session not found")

// Store is the storage contract for sessions. Implementations must be safe
// for concurrent use.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) (*Session, error)

	// Get retrieves a copy of a session by id.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns copies of all sessions.
	List(ctx context.Context) ([]*Session, error)

	// Mutate runs fn against the stored session under the store's lock,
	// making read-modify-write sequences atomic. The session passed to fn
	// may be modified in place; returning an error discards nothing but is
	// propagated to the caller.
	Mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// Delete removes a session. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
