// Package timeline defines the canonical data model for a two-track
// audio/visual timeline: clips, tracks, and the spans of time they occupy.
// All times are integer milliseconds from the start of the timeline.
package timeline

// Span is a half-open interval [StartMs, EndMs) on a track.
// Zero-length spans are never produced.
type Span struct {
	StartMs int `json:"start_ms"`
	EndMs   int `json:"end_ms"`
}

// DurationMs returns the length of the span.
func (s Span) DurationMs() int {
	return s.EndMs - s.StartMs
}

// Clip is the base of every clip on a track. ID is the sole cross-reference
// key for mutations and is immutable once created. The canonical time
// representation is start plus duration; end is always derived.
type Clip struct {
	ID         string  `json:"id"`
	StartMs    int     `json:"start_ms"`
	DurationMs int     `json:"duration_ms"`
	Speaker    *string `json:"speaker"`
}

// EndMs returns the derived end time of the clip.
func (c Clip) EndMs() int {
	return c.StartMs + c.DurationMs
}

// Bounds returns the clip's interval as a Span.
func (c Clip) Bounds() Span {
	return Span{StartMs: c.StartMs, EndMs: c.EndMs()}
}

// ClipTypeAudio and ClipTypeVisual are the type tags carried on the wire.
const (
	ClipTypeAudio  = "audio"
	ClipTypeVisual = "visual"
)

// AudioClip is a time-bounded unit of audio content. Generation params
// describe text-to-speech input; task and asset ids are opaque references to
// an external generation system and are only ever replaced wholesale.
type AudioClip struct {
	Clip
	Type                  string                 `json:"type"`
	AudioGenerationParams *AudioGenerationParams `json:"audio_generation_params"`
	AudioTaskID           *string                `json:"audio_task_id"`
	AudioAssetID          *string                `json:"audio_asset_id"`
}

// VisualClip is a time-bounded unit of image or video content. At most one of
// ImageGenerationParams and VideoGenerationParams is set.
type VisualClip struct {
	Clip
	Type                  string                 `json:"type"`
	ImageGenerationParams *ImageGenerationParams `json:"image_generation_params"`
	ImageTaskID           *string                `json:"image_task_id"`
	ImageAssetID          *string                `json:"image_asset_id"`
	VideoGenerationParams *VideoGenerationParams `json:"video_generation_params"`
	VideoTaskID           *string                `json:"video_task_id"`
	VideoAssetID          *string                `json:"video_asset_id"`
}
