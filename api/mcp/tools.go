package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/timeline"
	"github.com/kronoshq/kronos/pkg/timeline/refine"
)

var (
	timelineGetToolName    = "timeline_get"
	timelineGetDescription = "Get the refined view of a session's timeline: clips with derived end times, per-clip overlaps, per-track gaps, overlap windows, and scene indices."

	addAudioToolName    = "add_audio"
	addAudioDescription = "Add an audio clip (voiceover, music, effects) to the session's audio track."

	addVisualToolName    = "add_visual"
	addVisualDescription = "Add a visual clip (image or video scene) to the session's visual track."

	removeAudioToolName    = "remove_audio"
	removeAudioDescription = "Remove an audio clip by id. Removing an absent id is a no-op."

	removeVisualToolName    = "remove_visual"
	removeVisualDescription = "Remove a visual clip by id. Removing an absent id is a no-op."

	modifyAudioToolName    = "modify_audio"
	modifyAudioDescription = "Replace an existing audio clip wholesale. Supply the complete updated clip; its id selects which clip to replace."

	modifyVisualToolName    = "modify_visual"
	modifyVisualDescription = "Replace an existing visual clip wholesale. Supply the complete updated clip; its id selects which clip to replace."

	retimeClipsToolName    = "retime_clips"
	retimeClipsDescription = "Reposition a batch of clips by id. Each entry sets a new start time plus either a duration or an end time; all other clip fields are preserved."
)

// TimelineGetInput names the session to inspect.
type TimelineGetInput struct {
	SessionID string `json:"session_id" jsonschema:"the id of the session to inspect"`
}

// RefinedOutput is the annotated timeline returned by timeline_get.
type RefinedOutput struct {
	SessionID string          `json:"session_id"`
	Timeline  refine.Timeline `json:"timeline"`
}

// AddAudioInput carries a complete audio clip to append.
type AddAudioInput struct {
	SessionID   string             `json:"session_id" jsonschema:"the id of the session to edit"`
	Description string             `json:"description,omitempty" jsonschema:"why this edit is being made"`
	Clip        timeline.AudioClip `json:"clip" jsonschema:"the audio clip to add"`
}

// AddVisualInput carries a complete visual clip to append.
type AddVisualInput struct {
	SessionID   string              `json:"session_id" jsonschema:"the id of the session to edit"`
	Description string              `json:"description,omitempty" jsonschema:"why this edit is being made"`
	Clip        timeline.VisualClip `json:"clip" jsonschema:"the visual clip to add"`
}

// RemoveInput names a clip to remove.
type RemoveInput struct {
	SessionID   string `json:"session_id" jsonschema:"the id of the session to edit"`
	Description string `json:"description,omitempty" jsonschema:"why this edit is being made"`
	ClipID      string `json:"clip_id" jsonschema:"the id of the clip to remove"`
}

// RetimeClipsInput carries a batch of timing changes.
type RetimeClipsInput struct {
	SessionID   string            `json:"session_id" jsonschema:"the id of the session to edit"`
	Description string            `json:"description,omitempty" jsonschema:"why this edit is being made"`
	Retimes     []mutation.Retime `json:"retimes" jsonschema:"the timing changes to apply in order"`
}

// MutateOutput is returned by every mutating tool: the timeline after the
// edit, plus counts for a quick sanity check.
type MutateOutput struct {
	SessionID   string            `json:"session_id"`
	Timeline    timeline.Timeline `json:"timeline"`
	AudioClips  int               `json:"audio_clips"`
	VisualClips int               `json:"visual_clips"`
}

// handleTimelineGet returns the refined timeline of a session.
func (s *Server) handleTimelineGet(ctx context.Context, req *mcp.CallToolRequest, input TimelineGetInput) (*mcp.CallToolResult, RefinedOutput, error) {
	sess, err := s.config.Store.Get(ctx, input.SessionID)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to load session: %v", err)), RefinedOutput{}, nil
	}

	output := RefinedOutput{
		SessionID: sess.ID,
		Timeline:  refine.Refine(sess.Timeline),
	}
	return toolResult(s, output, RefinedOutput{})
}

func (s *Server) handleAddAudio(ctx context.Context, req *mcp.CallToolRequest, input AddAudioInput) (*mcp.CallToolResult, MutateOutput, error) {
	m := mutation.AddAudio{
		Base: mutation.Base{Type: mutation.TypeAddAudio, Description: input.Description},
		Clip: input.Clip,
	}
	if err := input.Clip.Validate(); err != nil {
		return toolError(fmt.Sprintf("Invalid clip: %v", err)), MutateOutput{}, nil
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleAddVisual(ctx context.Context, req *mcp.CallToolRequest, input AddVisualInput) (*mcp.CallToolResult, MutateOutput, error) {
	m := mutation.AddVisual{
		Base: mutation.Base{Type: mutation.TypeAddVisual, Description: input.Description},
		Clip: input.Clip,
	}
	if err := input.Clip.Validate(); err != nil {
		return toolError(fmt.Sprintf("Invalid clip: %v", err)), MutateOutput{}, nil
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleRemoveAudio(ctx context.Context, req *mcp.CallToolRequest, input RemoveInput) (*mcp.CallToolResult, MutateOutput, error) {
	if input.ClipID == "" {
		return toolError("clip_id is required"), MutateOutput{}, nil
	}
	m := mutation.RemoveAudio{
		Base:   mutation.Base{Type: mutation.TypeRemoveAudio, Description: input.Description},
		ClipID: input.ClipID,
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleRemoveVisual(ctx context.Context, req *mcp.CallToolRequest, input RemoveInput) (*mcp.CallToolResult, MutateOutput, error) {
	if input.ClipID == "" {
		return toolError("clip_id is required"), MutateOutput{}, nil
	}
	m := mutation.RemoveVisual{
		Base:   mutation.Base{Type: mutation.TypeRemoveVisual, Description: input.Description},
		ClipID: input.ClipID,
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleModifyAudio(ctx context.Context, req *mcp.CallToolRequest, input AddAudioInput) (*mcp.CallToolResult, MutateOutput, error) {
	m := mutation.ModifyAudio{
		Base: mutation.Base{Type: mutation.TypeModifyAudio, Description: input.Description},
		Clip: input.Clip,
	}
	if err := input.Clip.Validate(); err != nil {
		return toolError(fmt.Sprintf("Invalid clip: %v", err)), MutateOutput{}, nil
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleModifyVisual(ctx context.Context, req *mcp.CallToolRequest, input AddVisualInput) (*mcp.CallToolResult, MutateOutput, error) {
	m := mutation.ModifyVisual{
		Base: mutation.Base{Type: mutation.TypeModifyVisual, Description: input.Description},
		Clip: input.Clip,
	}
	if err := input.Clip.Validate(); err != nil {
		return toolError(fmt.Sprintf("Invalid clip: %v", err)), MutateOutput{}, nil
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

func (s *Server) handleRetimeClips(ctx context.Context, req *mcp.CallToolRequest, input RetimeClipsInput) (*mcp.CallToolResult, MutateOutput, error) {
	if len(input.Retimes) == 0 {
		return toolError("at least one retime entry is required"), MutateOutput{}, nil
	}
	m := mutation.RetimeClips{
		Base:    mutation.Base{Type: mutation.TypeRetimeClips, Description: input.Description},
		Retimes: input.Retimes,
	}
	return s.applyMutation(ctx, input.SessionID, m)
}

// applyMutation applies one mutation to the named session under the store
// lock and returns the updated timeline.
func (s *Server) applyMutation(ctx context.Context, sessionID string, m mutation.Mutation) (*mcp.CallToolResult, MutateOutput, error) {
	logger := s.config.Logger

	sess, err := s.config.Store.Mutate(ctx, sessionID, func(sess *session.Session) error {
		sess.Timeline = mutation.Apply(sess.Timeline, m)
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return toolError(fmt.Sprintf("Session %s not found", sessionID)), MutateOutput{}, nil
		}
		logger.Error("MCP mutation failed", "session", sessionID, "type", m.MutationType(), "error", err)
		return toolError(fmt.Sprintf("Failed to apply mutation: %v", err)), MutateOutput{}, nil
	}

	logger.Debug("MCP mutation applied",
		"session", sessionID,
		"type", m.MutationType(),
	)

	output := MutateOutput{
		SessionID:   sess.ID,
		Timeline:    sess.Timeline,
		AudioClips:  len(sess.Timeline.AudioTrack),
		VisualClips: len(sess.Timeline.VisualTrack),
	}
	return toolResult(s, output, MutateOutput{})
}

// toolResult serializes the structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func toolResult[T any](s *Server, output T, zero T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal tool output", "error", err)
		return toolError(fmt.Sprintf("Failed to serialize result: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// toolError builds an error result that the calling model can read and
// correct itself against.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
