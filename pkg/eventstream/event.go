package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/kronoshq/kronos/pkg/mutation"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeSessionCreated is emitted when a session is created.
	EventTypeSessionCreated = "kronos.session.created"

	// EventTypeSessionDeleted is emitted when a session is deleted.
	EventTypeSessionDeleted = "kronos.session.deleted"

	// EventTypeMutationsApplied is emitted when a mutation batch is applied
	// directly to a session timeline.
	EventTypeMutationsApplied = "kronos.mutations.applied"

	// EventTypeProposalsStaged is emitted when mutations are staged as a
	// pending proposal batch.
	EventTypeProposalsStaged = "kronos.proposals.staged"

	// EventTypeProposalsAccepted is emitted when a pending batch is applied.
	EventTypeProposalsAccepted = "kronos.proposals.accepted"

	// EventTypeProposalsRejected is emitted when a pending batch is discarded.
	EventTypeProposalsRejected = "kronos.proposals.rejected"
)

// SessionEvent is a transport-neutral event payload describing a change to
// an editing session.
type SessionEvent struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	SessionID     string         `json:"session_id"`
	Mutations     []MutationMeta `json:"mutations,omitempty"`
	AudioClips    int            `json:"audio_clips"`
	VisualClips   int            `json:"visual_clips"`
}

// MutationMeta is the compact description of one mutation in an event.
// The full mutation body stays in the session; events only carry enough to
// follow along.
type MutationMeta struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// NewSessionEvent builds a SessionEvent with a fresh id and timestamp.
func NewSessionEvent(eventType, sessionID string) *SessionEvent {
	return &SessionEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		SessionID:     sessionID,
	}
}

// WithMutations attaches mutation metadata to the event.
func (e *SessionEvent) WithMutations(muts []mutation.Mutation) *SessionEvent {
	metas := make([]MutationMeta, 0, len(muts))
	for _, m := range muts {
		metas = append(metas, MutationMeta{
			Type:        string(m.MutationType()),
			Description: m.Describe(),
		})
	}
	e.Mutations = metas
	return e
}

// WithTrackSizes records the track sizes after the change.
func (e *SessionEvent) WithTrackSizes(audioClips, visualClips int) *SessionEvent {
	e.AudioClips = audioClips
	e.VisualClips = visualClips
	return e
}
