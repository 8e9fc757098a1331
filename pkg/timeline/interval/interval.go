// Package interval implements the pure interval arithmetic over track clips:
// total duration, gap computation, and overlap detection. Functions here are
// synchronous, allocation-per-call, and never error; inconsistent states such
// as overlapping clips are data to be reported, not failures.
package interval

import (
	"github.com/kronoshq/kronos/pkg/timeline"
)

// Window is a distinct overlap window annotated with every clip id whose
// interval covers exactly that window. Three mutually overlapping clips can
// produce windows of different extents; identical windows are merged rather
// than double-reported.
type Window struct {
	timeline.Span
	ClipIDs []string `json:"clip_ids"`
}

// TotalDuration returns the furthest clip end over all clips, or 0 for an
// empty collection. This is the implied timeline length when no explicit
// reference duration is given.
func TotalDuration(clips []timeline.Clip) int {
	max := 0
	for _, c := range clips {
		if end := c.EndMs(); end > max {
			max = end
		}
	}
	return max
}

// Gaps computes the complement of the union of clip intervals within
// [0, max(TotalDuration(clips), referenceMs)). A reference shorter than the
// clips' own extent is ignored. An empty clip list with a positive reference
// yields a single gap covering the whole range.
//
// The fold starts from one gap spanning the full range and subtracts each
// clip's interval from every tracked gap, keeping the fragments before the
// clip's start and after its end.
func Gaps(clips []timeline.Clip, referenceMs int) []timeline.Span {
	end := TotalDuration(clips)
	if referenceMs > end {
		end = referenceMs
	}
	if end <= 0 {
		return []timeline.Span{}
	}

	gaps := []timeline.Span{{StartMs: 0, EndMs: end}}
	for _, clip := range clips {
		clipStart, clipEnd := clip.StartMs, clip.EndMs()
		next := make([]timeline.Span, 0, len(gaps)+1)
		for _, gap := range gaps {
			if clipEnd <= gap.StartMs || clipStart >= gap.EndMs {
				next = append(next, gap)
				continue
			}
			if gap.StartMs < clipStart {
				next = append(next, timeline.Span{StartMs: gap.StartMs, EndMs: clipStart})
			}
			if gap.EndMs > clipEnd {
				next = append(next, timeline.Span{StartMs: clipEnd, EndMs: gap.EndMs})
			}
			// A clip fully covering the gap contributes nothing.
		}
		gaps = next
	}
	return gaps
}

// OverlapSpan returns the intersection of two clips' intervals. Touching
// endpoints do not count as overlapping.
func OverlapSpan(a, b timeline.Clip) (timeline.Span, bool) {
	start := a.StartMs
	if b.StartMs > start {
		start = b.StartMs
	}
	end := a.EndMs()
	if b.EndMs() < end {
		end = b.EndMs()
	}
	if start >= end {
		return timeline.Span{}, false
	}
	return timeline.Span{StartMs: start, EndMs: end}, true
}

// Overlaps reports every distinct overlap window within a single track.
// Each pair of intersecting clips contributes its intersection window; if an
// identical window is already tracked, the clip ids merge into it instead of
// creating a duplicate. The resulting set of windows and their id membership
// is independent of input order, though window ordering is not.
func Overlaps(clips []timeline.Clip) []Window {
	var windows []Window

	for i := 0; i < len(clips); i++ {
		for j := i + 1; j < len(clips); j++ {
			a, b := clips[i], clips[j]
			if a.ID == b.ID {
				continue
			}
			span, ok := OverlapSpan(a, b)
			if !ok {
				continue
			}

			merged := false
			for k := range windows {
				if windows[k].Span == span {
					windows[k].ClipIDs = addID(windows[k].ClipIDs, a.ID)
					windows[k].ClipIDs = addID(windows[k].ClipIDs, b.ID)
					merged = true
					break
				}
			}
			if !merged {
				windows = append(windows, Window{Span: span, ClipIDs: []string{a.ID, b.ID}})
			}
		}
	}
	return windows
}

func addID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
