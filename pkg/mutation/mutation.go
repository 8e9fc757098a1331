// Package mutation defines the closed set of timeline edit operations and the
// pure reducer that applies them. Mutations arrive from the editing agent as
// parsed tool calls; the reducer executes exactly what it is told and performs
// no gap or overlap repair of its own.
package mutation

import "github.com/kronoshq/kronos/pkg/timeline"

// Type discriminates mutation variants on the wire.
type Type string

const (
	TypeAddAudio     Type = "add_audio"
	TypeAddVisual    Type = "add_visual"
	TypeRemoveAudio  Type = "remove_audio"
	TypeRemoveVisual Type = "remove_visual"
	TypeModifyAudio  Type = "modify_audio"
	TypeModifyVisual Type = "modify_visual"
	TypeRetimeClips  Type = "retime_clips"
)

// Mutation is a single, named edit operation. Description carries the agent's
// human-readable rationale and plays no part in application logic.
type Mutation interface {
	MutationType() Type
	Describe() string
}

// Base carries the fields every mutation variant shares.
type Base struct {
	Type        Type   `json:"type"`
	Description string `json:"description"`
}

func (b Base) Describe() string { return b.Description }

// AddAudio appends a new audio clip to the audio track. The clip id is the
// caller's responsibility; no duplicate-id check is performed here.
type AddAudio struct {
	Base
	Clip timeline.AudioClip `json:"clip"`
}

func (AddAudio) MutationType() Type { return TypeAddAudio }

// AddVisual appends a new visual clip to the visual track.
type AddVisual struct {
	Base
	Clip timeline.VisualClip `json:"clip"`
}

func (AddVisual) MutationType() Type { return TypeAddVisual }

// RemoveAudio removes the audio clip with the given id. Removing an absent id
// is a silent no-op; deletion is idempotent.
type RemoveAudio struct {
	Base
	ClipID string `json:"clip_id"`
}

func (RemoveAudio) MutationType() Type { return TypeRemoveAudio }

// RemoveVisual removes the visual clip with the given id.
type RemoveVisual struct {
	Base
	ClipID string `json:"clip_id"`
}

func (RemoveVisual) MutationType() Type { return TypeRemoveVisual }

// ModifyAudio replaces the audio clip whose id matches Clip.ID wholesale.
// Partial patching does not exist at this layer; callers supply the complete
// updated clip. Unknown ids no-op.
type ModifyAudio struct {
	Base
	Clip timeline.AudioClip `json:"clip"`
}

func (ModifyAudio) MutationType() Type { return TypeModifyAudio }

// ModifyVisual replaces the visual clip whose id matches Clip.ID wholesale.
type ModifyVisual struct {
	Base
	Clip timeline.VisualClip `json:"clip"`
}

func (ModifyVisual) MutationType() Type { return TypeModifyVisual }

// Retime repositions a single clip. Exactly the timing fields change; every
// other field of the clip is preserved, the one exception to the
// whole-replacement rule. One of DurationMs or EndTimeMs must be set; when
// only EndTimeMs is given the duration is derived from it at parse time.
type Retime struct {
	ClipID      string `json:"clip_id"`
	StartTimeMs int    `json:"start_time_ms"`
	DurationMs  int    `json:"duration_ms,omitempty"`
	EndTimeMs   int    `json:"end_time_ms,omitempty"`
}

// RetimeClips repositions a batch of clips in one mutation. Each entry is
// independent and unconditional: ids are searched in the audio track first,
// then visual, entries are applied in order, and no collision check is made
// against other entries in the same batch.
type RetimeClips struct {
	Base
	Retimes []Retime `json:"retimes"`
}

func (RetimeClips) MutationType() Type { return TypeRetimeClips }
