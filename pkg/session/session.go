// Package session owns the editing-session lifecycle: the current timeline,
// the conversation history, and the batch of pending mutation proposals
// awaiting user accept or reject. Persistence of timelines across processes
// is deliberately out of scope; sessions live in memory for the life of the
// server.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/timeline"
)

// Session is one editing conversation over one timeline.
type Session struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Timeline  timeline.Timeline `json:"timeline"`

	// Messages is the conversation history in chronological order.
	Messages []llm.Message `json:"messages,omitempty"`

	// Pending holds mutations proposed by the agent but not yet confirmed.
	// They are applied all-or-nothing: Accept applies the whole batch in
	// order, Reject discards it without applying anything.
	Pending []mutation.Mutation `json:"-"`
}

// New creates a session over the given timeline with a fresh id.
func New(t timeline.Timeline) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Timeline:  t.Sorted(),
	}
}

// Propose stages mutations onto the pending batch.
func (s *Session) Propose(muts ...mutation.Mutation) {
	s.Pending = append(s.Pending, muts...)
	s.UpdatedAt = time.Now().UTC()
}

// Accept applies the entire pending batch in order and clears it. There is no
// partial apply: the batch either lands whole here or not at all.
func (s *Session) Accept() {
	if len(s.Pending) == 0 {
		return
	}
	s.Timeline = mutation.ApplyAll(s.Timeline, s.Pending)
	s.Pending = nil
	s.UpdatedAt = time.Now().UTC()
}

// Reject discards the pending batch without applying it.
func (s *Session) Reject() {
	s.Pending = nil
	s.UpdatedAt = time.Now().UTC()
}

// Snapshot returns an independent copy of the current timeline, suitable for
// a playback query that needs a consistent view for its duration.
func (s *Session) Snapshot() timeline.Timeline {
	return s.Timeline.Clone()
}

// Clone returns a copy of the session with independently-owned slices, so a
// caller can read it without holding store locks.
func (s *Session) Clone() *Session {
	out := &Session{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Timeline:  s.Timeline.Clone(),
	}
	if len(s.Messages) > 0 {
		out.Messages = append([]llm.Message(nil), s.Messages...)
	}
	if len(s.Pending) > 0 {
		out.Pending = append([]mutation.Mutation(nil), s.Pending...)
	}
	return out
}
