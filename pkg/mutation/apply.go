package mutation

import "github.com/kronoshq/kronos/pkg/timeline"

// Apply executes a single mutation against a timeline and returns the new
// timeline value. The input is never modified. Reference-not-found conditions
// (remove, modify, or retime targeting an absent id) return the timeline
// unchanged rather than erroring: the agent may legitimately reference a clip
// an earlier mutation in the same batch already removed.
//
// New clips are appended, not inserted in sorted position; consumers that
// need order call Sorted or Refine.
func Apply(t timeline.Timeline, m Mutation) timeline.Timeline {
	out := t.Clone()

	switch mut := m.(type) {
	case AddAudio:
		out.AudioTrack = append(out.AudioTrack, mut.Clip)

	case AddVisual:
		out.VisualTrack = append(out.VisualTrack, mut.Clip)

	case RemoveAudio:
		for i, clip := range out.AudioTrack {
			if clip.ID == mut.ClipID {
				out.AudioTrack = append(out.AudioTrack[:i:i], out.AudioTrack[i+1:]...)
				break
			}
		}

	case RemoveVisual:
		for i, clip := range out.VisualTrack {
			if clip.ID == mut.ClipID {
				out.VisualTrack = append(out.VisualTrack[:i:i], out.VisualTrack[i+1:]...)
				break
			}
		}

	case ModifyAudio:
		for i, clip := range out.AudioTrack {
			if clip.ID == mut.Clip.ID {
				out.AudioTrack[i] = mut.Clip
				break
			}
		}

	case ModifyVisual:
		for i, clip := range out.VisualTrack {
			if clip.ID == mut.Clip.ID {
				out.VisualTrack[i] = mut.Clip
				break
			}
		}

	case RetimeClips:
		for _, retime := range mut.Retimes {
			applyRetime(&out, retime)
		}
	}

	return out
}

// ApplyAll folds Apply over mutations in strict list order. Later mutations
// may reference clips created or already retimed by earlier ones.
func ApplyAll(t timeline.Timeline, mutations []Mutation) timeline.Timeline {
	for _, m := range mutations {
		t = Apply(t, m)
	}
	return t
}

// applyRetime updates the timing of one clip in place on the cloned tracks,
// searching audio before visual. Duration falls back to being derived from
// end_time_ms when not given directly.
func applyRetime(t *timeline.Timeline, r Retime) {
	duration := r.DurationMs
	if duration == 0 && r.EndTimeMs > r.StartTimeMs {
		duration = r.EndTimeMs - r.StartTimeMs
	}
	if duration <= 0 {
		return
	}

	for i, clip := range t.AudioTrack {
		if clip.ID == r.ClipID {
			t.AudioTrack[i].StartMs = r.StartTimeMs
			t.AudioTrack[i].DurationMs = duration
			return
		}
	}
	for i, clip := range t.VisualTrack {
		if clip.ID == r.ClipID {
			t.VisualTrack[i].StartMs = r.StartTimeMs
			t.VisualTrack[i].DurationMs = duration
			return
		}
	}
}
