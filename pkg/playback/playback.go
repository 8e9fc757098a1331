// Package playback is the read-side boundary the render driver consumes:
// given a timeline snapshot and a playhead time, which clip is active on each
// track. Queries are read-only and idempotent; the driver owns the clock and
// simply asks again as the playhead advances.
package playback

import "github.com/kronoshq/kronos/pkg/timeline"

// Bounded is any clip kind with a half-open interval on its track.
type Bounded interface {
	Bounds() timeline.Span
}

// ActiveClip returns the clip whose interval contains timeMs, or false if the
// time falls in a gap. The track is assumed pre-sorted. If multiple clips
// overlap at that instant (an inconsistent but representable state) the first
// match in array order wins; that tie-break is deliberate and this layer does
// not detect the inconsistency.
func ActiveClip[C Bounded](track []C, timeMs int) (C, bool) {
	for _, clip := range track {
		b := clip.Bounds()
		if b.StartMs <= timeMs && timeMs < b.EndMs {
			return clip, true
		}
	}
	var zero C
	return zero, false
}

// Frame is what the render driver needs for one instant of playback.
// A nil clip means that track is in a gap at this time.
type Frame struct {
	TimeMs int                  `json:"time_ms"`
	Audio  *timeline.AudioClip  `json:"audio"`
	Visual *timeline.VisualClip `json:"visual"`
}

// Resolve answers "what is playing at time T" for both tracks against one
// consistent timeline snapshot.
func Resolve(t timeline.Timeline, timeMs int) Frame {
	frame := Frame{TimeMs: timeMs}
	if clip, ok := ActiveClip(t.AudioTrack, timeMs); ok {
		frame.Audio = &clip
	}
	if clip, ok := ActiveClip(t.VisualTrack, timeMs); ok {
		frame.Visual = &clip
	}
	return frame
}
