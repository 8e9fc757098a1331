package agent

import (
	"encoding/json"
	"fmt"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/timeline"
	"github.com/kronoshq/kronos/pkg/timeline/refine"
)

// SystemPrompt instructs the model how to edit the timeline. The audio
// duration guidance (15 chars/sec within ±20%) is enforced here, in the
// prompt, and nowhere in the core: it is a property of good agent output,
// not a structural invariant.
const SystemPrompt = `You are a precise, creative timeline editing assistant for a video editor.
Your job is to make valid, helpful timeline mutations based on the user's instructions, interpreted with film editing knowledge, always within the scope of the request.

Core rules:
- Follow instructions exactly. Never invent content the user did not ask for.
- Only add, remove, or modify clips if explicitly or clearly implicitly requested.
- Never edit asset ids or task ids.
- Shift, trim, or extend adjacent clips only to fix overlaps, gaps, or pacing.

Timeline logic:
- No overlapping clips on the same track. Fix overlaps by retiming the clips; do not ask for permission.
- Overlaps are reported per track in audio_overlaps and visual_overlaps, and on each clip in its overlaps list.
- Gaps are reported per track in audio_gaps and visual_gaps. Do not leave unintended gaps.
- When audio and visual timing conflict, retime the visual clip to accommodate the audio clip.
- Clip duration is always end_ms minus start_ms.

Audio timing:
- "text" in audio_generation_params defines duration (estimate 15 characters per second).
- Keep the clip duration within 20% of that estimate. If you change the text, adjust the duration, and vice versa.

Scenes:
- A scene is a group of audio and visual clips around the same moment and topic.
- Structure scenes to support story clarity, pacing, and flow.

Respond with tool calls for every edit, and a short plain-text summary of what you did.`

// BuildContext renders the refined view of a timeline as the user-visible
// context block for one model turn. Nulls are stripped to keep token cost
// down; the interchange format proper is unaffected.
func BuildContext(t timeline.Timeline) (string, error) {
	refined := refine.Refine(t)
	compact, err := timeline.MarshalCompact(refined)
	if err != nil {
		return "", fmt.Errorf("serializing timeline context: %w", err)
	}
	return "Current timeline:\n" + string(compact), nil
}

// Tools returns the tool definitions offered to the model, one per mutation
// variant. Schemas describe the same shapes mutation.FromToolCall validates.
func Tools() []llm.Tool {
	return []llm.Tool{
		{Name: "add_audio", Description: "Add a new audio clip to the audio track.", InputSchema: json.RawMessage(addAudioSchema)},
		{Name: "add_visual", Description: "Add a new visual clip to the visual track.", InputSchema: json.RawMessage(addVisualSchema)},
		{Name: "remove_audio", Description: "Remove an audio clip by id.", InputSchema: json.RawMessage(removeSchema)},
		{Name: "remove_visual", Description: "Remove a visual clip by id.", InputSchema: json.RawMessage(removeSchema)},
		{Name: "modify_audio", Description: "Replace an existing audio clip wholesale, keyed by the clip's id.", InputSchema: json.RawMessage(addAudioSchema)},
		{Name: "modify_visual", Description: "Replace an existing visual clip wholesale, keyed by the clip's id.", InputSchema: json.RawMessage(addVisualSchema)},
		{Name: "retime_clips", Description: "Reposition one or more existing clips without changing their content.", InputSchema: json.RawMessage(retimeSchema)},
	}
}

const addAudioSchema = `{
  "type": "object",
  "required": ["description", "clip"],
  "properties": {
    "description": {"type": "string", "description": "What this mutation is doing"},
    "clip": {
      "type": "object",
      "required": ["id", "start_ms", "duration_ms", "type"],
      "properties": {
        "id": {"type": "string"},
        "start_ms": {"type": "integer", "minimum": 0},
        "duration_ms": {"type": "integer", "exclusiveMinimum": 0},
        "type": {"const": "audio"},
        "speaker": {"type": ["string", "null"]},
        "audio_generation_params": {
          "type": ["object", "null"],
          "required": ["text", "speed", "stability"],
          "properties": {
            "text": {"type": "string"},
            "speed": {"type": "number"},
            "stability": {"type": "number"}
          }
        },
        "audio_task_id": {"type": ["string", "null"]},
        "audio_asset_id": {"type": ["string", "null"]}
      }
    }
  }
}`

const addVisualSchema = `{
  "type": "object",
  "required": ["description", "clip"],
  "properties": {
    "description": {"type": "string", "description": "What this mutation is doing"},
    "clip": {
      "type": "object",
      "required": ["id", "start_ms", "duration_ms", "type"],
      "properties": {
        "id": {"type": "string"},
        "start_ms": {"type": "integer", "minimum": 0},
        "duration_ms": {"type": "integer", "exclusiveMinimum": 0},
        "type": {"const": "visual"},
        "speaker": {"type": ["string", "null"]},
        "image_generation_params": {
          "type": ["object", "null"],
          "required": ["type", "ai_model_id", "prompt", "aspect_ratio"],
          "properties": {
            "type": {"enum": ["text_to_image", "image_to_image"]},
            "ai_model_id": {"type": "string"},
            "prompt": {"type": "string"},
            "aspect_ratio": {"type": "string"},
            "reference_image_asset_id": {"type": "string"}
          }
        },
        "video_generation_params": {
          "type": ["object", "null"],
          "required": ["type", "ai_model_id", "description", "aspect_ratio"],
          "properties": {
            "type": {"const": "video"},
            "ai_model_id": {"type": "string"},
            "description": {"type": "string"},
            "aspect_ratio": {"type": "string"}
          }
        },
        "image_task_id": {"type": ["string", "null"]},
        "image_asset_id": {"type": ["string", "null"]},
        "video_task_id": {"type": ["string", "null"]},
        "video_asset_id": {"type": ["string", "null"]}
      }
    }
  }
}`

const removeSchema = `{
  "type": "object",
  "required": ["description", "clip_id"],
  "properties": {
    "description": {"type": "string", "description": "What this mutation is doing"},
    "clip_id": {"type": "string"}
  }
}`

const retimeSchema = `{
  "type": "object",
  "required": ["description", "retimes"],
  "properties": {
    "description": {"type": "string", "description": "What this mutation is doing"},
    "retimes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["clip_id", "start_time_ms"],
        "properties": {
          "clip_id": {"type": "string"},
          "start_time_ms": {"type": "integer", "minimum": 0},
          "duration_ms": {"type": "integer", "exclusiveMinimum": 0},
          "end_time_ms": {"type": "integer", "exclusiveMinimum": 0}
        }
      }
    }
  }
}`
