package timeline

import (
	"encoding/json"
	"fmt"
)

// Parse decodes and validates a Timeline from its JSON interchange form and
// returns it sorted by start time. This is the boundary where loosely-typed
// input becomes a trusted value; the pure functions downstream do not
// re-validate.
func Parse(data []byte) (Timeline, error) {
	var t Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return Timeline{}, fmt.Errorf("decoding timeline: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Timeline{}, err
	}
	return t.Sorted(), nil
}

// Validate checks the structural shape of every clip on both tracks.
// Overlaps and gaps are not validation failures; they are reported by
// refinement instead.
func (t Timeline) Validate() error {
	for i, c := range t.AudioTrack {
		if c.Type != "" && c.Type != ClipTypeAudio {
			return fmt.Errorf("audio_track[%d]: unexpected type %q", i, c.Type)
		}
		if err := c.Clip.Validate(); err != nil {
			return fmt.Errorf("audio_track[%d]: %w", i, err)
		}
	}
	for i, c := range t.VisualTrack {
		if c.Type != "" && c.Type != ClipTypeVisual {
			return fmt.Errorf("visual_track[%d]: unexpected type %q", i, c.Type)
		}
		if err := c.Clip.Validate(); err != nil {
			return fmt.Errorf("visual_track[%d]: %w", i, err)
		}
		if c.ImageGenerationParams != nil && c.VideoGenerationParams != nil {
			return fmt.Errorf("visual_track[%d] (%s): image and video generation params are mutually exclusive", i, c.ID)
		}
	}
	return nil
}

func (c Clip) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("clip id is required")
	}
	if c.StartMs < 0 {
		return fmt.Errorf("clip %s: start_ms %d is negative", c.ID, c.StartMs)
	}
	if c.DurationMs <= 0 {
		return fmt.Errorf("clip %s: duration_ms %d must be positive", c.ID, c.DurationMs)
	}
	return nil
}

// MarshalCompact serializes v as JSON with null-valued fields stripped at
// every depth. Used when embedding a timeline in model context, where nulls
// only cost tokens. The interchange format proper keeps explicit nulls.
func MarshalCompact(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return json.Marshal(stripNulls(decoded))
}

func stripNulls(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if inner == nil {
				delete(val, k)
				continue
			}
			val[k] = stripNulls(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = stripNulls(inner)
		}
		return val
	default:
		return v
	}
}
