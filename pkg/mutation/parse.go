package mutation

import (
	"encoding/json"
	"fmt"
)

// FromToolCall parses a tool call's raw JSON arguments into a typed Mutation,
// keyed by the tool name the model invoked. This is the boundary where
// loosely-typed model output becomes trusted core input; shape problems
// surface here as errors and never reach the reducer.
func FromToolCall(name string, args []byte) (Mutation, error) {
	return decode(Type(name), args)
}

// Unmarshal parses a full mutation document keyed by its "type" discriminant.
// Used for mutation batches supplied as JSON rather than as tool calls.
func Unmarshal(data []byte) (Mutation, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding mutation envelope: %w", err)
	}
	return decode(envelope.Type, data)
}

// UnmarshalBatch parses a JSON array of mutation documents in order.
func UnmarshalBatch(data []byte) ([]Mutation, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding mutation batch: %w", err)
	}
	mutations := make([]Mutation, 0, len(raws))
	for i, raw := range raws {
		m, err := Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		mutations = append(mutations, m)
	}
	return mutations, nil
}

func decode(t Type, data []byte) (Mutation, error) {
	switch t {
	case TypeAddAudio:
		var m AddAudio
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if err := m.Clip.Validate(); err != nil {
			return nil, fmt.Errorf("add_audio: %w", err)
		}
		return m, nil

	case TypeAddVisual:
		var m AddVisual
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if err := m.Clip.Validate(); err != nil {
			return nil, fmt.Errorf("add_visual: %w", err)
		}
		if m.Clip.ImageGenerationParams != nil && m.Clip.VideoGenerationParams != nil {
			return nil, fmt.Errorf("add_visual: clip %s: image and video generation params are mutually exclusive", m.Clip.ID)
		}
		return m, nil

	case TypeRemoveAudio:
		var m RemoveAudio
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if m.ClipID == "" {
			return nil, fmt.Errorf("remove_audio: clip_id is required")
		}
		return m, nil

	case TypeRemoveVisual:
		var m RemoveVisual
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if m.ClipID == "" {
			return nil, fmt.Errorf("remove_visual: clip_id is required")
		}
		return m, nil

	case TypeModifyAudio:
		var m ModifyAudio
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if err := m.Clip.Validate(); err != nil {
			return nil, fmt.Errorf("modify_audio: %w", err)
		}
		return m, nil

	case TypeModifyVisual:
		var m ModifyVisual
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if err := m.Clip.Validate(); err != nil {
			return nil, fmt.Errorf("modify_visual: %w", err)
		}
		return m, nil

	case TypeRetimeClips:
		var m RetimeClips
		if err := strictDecode(data, &m); err != nil {
			return nil, err
		}
		m.Type = t
		if len(m.Retimes) == 0 {
			return nil, fmt.Errorf("retime_clips: at least one retime entry is required")
		}
		for i, r := range m.Retimes {
			if err := validateRetime(r); err != nil {
				return nil, fmt.Errorf("retime_clips[%d]: %w", i, err)
			}
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unknown mutation type %q", t)
	}
}

func validateRetime(r Retime) error {
	if r.ClipID == "" {
		return fmt.Errorf("clip_id is required")
	}
	if r.StartTimeMs < 0 {
		return fmt.Errorf("clip %s: start_time_ms %d is negative", r.ClipID, r.StartTimeMs)
	}
	switch {
	case r.DurationMs > 0:
		return nil
	case r.EndTimeMs > r.StartTimeMs:
		return nil
	default:
		return fmt.Errorf("clip %s: duration_ms or end_time_ms past start is required", r.ClipID)
	}
}

func strictDecode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding mutation: %w", err)
	}
	return nil
}
