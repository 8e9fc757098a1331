package timeline

import "sort"

// Timeline is the complete two-track timeline. Track order is not
// semantically significant; consumers rely on the sorted-by-start invariant
// and should call Sorted before position-dependent computation.
//
// Overlapping clips within a track are representable: the model detects and
// reports them rather than rejecting the state.
type Timeline struct {
	AudioTrack  []AudioClip  `json:"audio_track"`
	VisualTrack []VisualClip `json:"visual_track"`
}

// Clone returns a Timeline with shallow-copied tracks. Mutation application
// operates on clones so the input Timeline is never modified in place.
func (t Timeline) Clone() Timeline {
	audio := make([]AudioClip, len(t.AudioTrack))
	copy(audio, t.AudioTrack)
	visual := make([]VisualClip, len(t.VisualTrack))
	copy(visual, t.VisualTrack)
	return Timeline{AudioTrack: audio, VisualTrack: visual}
}

// Sorted returns a clone with both tracks stably ordered by start time.
func (t Timeline) Sorted() Timeline {
	out := t.Clone()
	sort.SliceStable(out.AudioTrack, func(i, j int) bool {
		return out.AudioTrack[i].StartMs < out.AudioTrack[j].StartMs
	})
	sort.SliceStable(out.VisualTrack, func(i, j int) bool {
		return out.VisualTrack[i].StartMs < out.VisualTrack[j].StartMs
	})
	return out
}

// AudioBase projects the audio track down to its base clips for interval
// analysis.
func (t Timeline) AudioBase() []Clip {
	clips := make([]Clip, len(t.AudioTrack))
	for i, c := range t.AudioTrack {
		clips[i] = c.Clip
	}
	return clips
}

// VisualBase projects the visual track down to its base clips.
func (t Timeline) VisualBase() []Clip {
	clips := make([]Clip, len(t.VisualTrack))
	for i, c := range t.VisualTrack {
		clips[i] = c.Clip
	}
	return clips
}

// AllBase returns the base clips of both tracks combined, used to compute the
// shared total duration both tracks are measured against.
func (t Timeline) AllBase() []Clip {
	return append(t.AudioBase(), t.VisualBase()...)
}
