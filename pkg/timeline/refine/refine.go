// Package refine derives the annotated view of a timeline that the editing
// agent and UI consume: per-clip overlap lists, per-track gaps and overlap
// windows, and best-effort scene indexing. Everything here is recomputable
// from the raw timeline and never stored as authoritative state.
package refine

import (
	"github.com/kronoshq/kronos/pkg/timeline"
	"github.com/kronoshq/kronos/pkg/timeline/interval"
)

// ClipOverlap is the self-centric overlap annotation on a refined clip:
// who do I overlap with, and where.
type ClipOverlap struct {
	ClipID string `json:"clip_id"`
	timeline.Span
}

// AudioClip is an audio clip annotated with its derived end time, its
// overlaps against the rest of its track, and its heuristic scene index.
type AudioClip struct {
	timeline.AudioClip
	EndMs      int           `json:"end_ms"`
	Overlaps   []ClipOverlap `json:"overlaps"`
	SceneIndex int           `json:"scene_index,omitempty"`
}

// VisualClip is the visual-track counterpart of AudioClip.
type VisualClip struct {
	timeline.VisualClip
	EndMs      int           `json:"end_ms"`
	Overlaps   []ClipOverlap `json:"overlaps"`
	SceneIndex int           `json:"scene_index,omitempty"`
}

// Timeline is the refined superset of a timeline. Gap lists are computed per
// track against the combined extent of both tracks, so one track's trailing
// silence shows up as a gap rather than silently shortening its range.
type Timeline struct {
	AudioTrack     []AudioClip       `json:"audio_track"`
	VisualTrack    []VisualClip      `json:"visual_track"`
	AudioGaps      []timeline.Span   `json:"audio_gaps"`
	VisualGaps     []timeline.Span   `json:"visual_gaps"`
	AudioOverlaps  []interval.Window `json:"audio_overlaps"`
	VisualOverlaps []interval.Window `json:"visual_overlaps"`
}

// Refine computes the annotated view of t. Pure function: t is re-sorted into
// a clone first, since mutation application appends rather than inserts in
// position.
func Refine(t timeline.Timeline) Timeline {
	sorted := t.Sorted()
	audioBase := sorted.AudioBase()
	visualBase := sorted.VisualBase()
	total := interval.TotalDuration(sorted.AllBase())

	out := Timeline{
		AudioTrack:     make([]AudioClip, len(sorted.AudioTrack)),
		VisualTrack:    make([]VisualClip, len(sorted.VisualTrack)),
		AudioGaps:      interval.Gaps(audioBase, total),
		VisualGaps:     interval.Gaps(visualBase, total),
		AudioOverlaps:  interval.Overlaps(audioBase),
		VisualOverlaps: interval.Overlaps(visualBase),
	}

	for i, c := range sorted.AudioTrack {
		out.AudioTrack[i] = AudioClip{
			AudioClip: c,
			EndMs:     c.EndMs(),
			Overlaps:  clipOverlaps(c.Clip, audioBase),
		}
	}
	for i, c := range sorted.VisualTrack {
		out.VisualTrack[i] = VisualClip{
			VisualClip: c,
			EndMs:      c.EndMs(),
			Overlaps:   clipOverlaps(c.Clip, visualBase),
		}
	}

	assignScenes(&out)
	return out
}

// clipOverlaps collects the overlap annotations for one clip against every
// other clip on the same track. Cross-track overlap is never reported.
func clipOverlaps(clip timeline.Clip, track []timeline.Clip) []ClipOverlap {
	overlaps := []ClipOverlap{}
	for _, other := range track {
		if other.ID == clip.ID {
			continue
		}
		if span, ok := interval.OverlapSpan(clip, other); ok {
			overlaps = append(overlaps, ClipOverlap{ClipID: other.ID, Span: span})
		}
	}
	return overlaps
}

// assignScenes numbers visual clips 1-based by position and propagates each
// index to audio clips whose interval overlaps that visual clip, first match
// wins. An audio clip spanning several visual clips takes the earliest; one
// overlapping none keeps index zero. Heuristic grouping only.
func assignScenes(t *Timeline) {
	for i := range t.VisualTrack {
		t.VisualTrack[i].SceneIndex = i + 1
	}
	for i := range t.AudioTrack {
		for _, visual := range t.VisualTrack {
			if _, ok := interval.OverlapSpan(t.AudioTrack[i].Clip, visual.Clip); ok {
				t.AudioTrack[i].SceneIndex = visual.SceneIndex
				break
			}
		}
	}
}
