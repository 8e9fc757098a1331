package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kronoshq/kronos/pkg/agent"
	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/logger"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/timeline"
)

// scriptedModel replays canned responses and records every request it saw.
// Once the script runs out it keeps returning the last response.
type scriptedModel struct {
	responses []*llm.ChatResponse
	requests  []*llm.ChatRequest
	err       error
}

func (m *scriptedModel) Complete(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func textResponse(text string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:    llm.NewTextMessage(llm.RoleAssistant, text),
		StopReason: "stop",
	}
}

func toolResponse(blocks ...llm.ContentBlock) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:    llm.Message{Role: llm.RoleAssistant, Content: blocks},
		StopReason: "tool_use",
	}
}

func toolUse(id, name, input string) llm.ContentBlock {
	return llm.ContentBlock{
		Type:      "tool_use",
		ToolUseID: id,
		ToolName:  name,
		ToolInput: json.RawMessage(input),
	}
}

func agentTimeline() timeline.Timeline {
	return timeline.Timeline{
		AudioTrack: []timeline.AudioClip{
			{Clip: timeline.Clip{ID: "a1", StartMs: 0, DurationMs: 4000}, Type: "audio"},
			{Clip: timeline.Clip{ID: "a2", StartMs: 4000, DurationMs: 2000}, Type: "audio"},
		},
		VisualTrack: []timeline.VisualClip{
			{Clip: timeline.Clip{ID: "v1", StartMs: 0, DurationMs: 3000}, Type: "visual"},
		},
	}
}

var _ = Describe("NewOrchestrator", func() {
	It("requires a model", func() {
		_, err := agent.NewOrchestrator(agent.Config{Logger: logger.Nop()})
		Expect(err).To(MatchError("model is required"))
	})

	It("requires a logger", func() {
		_, err := agent.NewOrchestrator(agent.Config{Model: &scriptedModel{}})
		Expect(err).To(MatchError("logger is required"))
	})
})

var _ = Describe("Orchestrator", func() {
	newOrchestrator := func(model agent.Model, maxTurns int) *agent.Orchestrator {
		o, err := agent.NewOrchestrator(agent.Config{
			Model:     model,
			ModelName: "qwen3",
			MaxTurns:  maxTurns,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		return o
	}

	It("returns the reply of a text-only turn with nothing proposed", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			textResponse("The timeline already flows well."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		result, err := o.Run(context.Background(), sess, "any notes?")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Reply).To(Equal("The timeline already flows well."))
		Expect(result.Proposed).To(BeEmpty())
		Expect(model.requests).To(HaveLen(1))
	})

	It("collects tool calls as proposed mutations across turns", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(toolUse("call_1", "remove_audio", `{"description": "drop the filler", "clip_id": "a2"}`)),
			textResponse("Removed the filler clip."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		result, err := o.Run(context.Background(), sess, "drop the second audio clip")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Reply).To(Equal("Removed the filler clip."))
		Expect(result.Proposed).To(HaveLen(1))
		Expect(result.Proposed[0].MutationType()).To(Equal(mutation.TypeRemoveAudio))
	})

	It("does not modify the session while the proposal is pending", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(toolUse("call_1", "remove_audio", `{"description": "drop it", "clip_id": "a2"}`)),
			textResponse("Done."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		_, err := o.Run(context.Background(), sess, "drop it")
		Expect(err).NotTo(HaveOccurred())

		Expect(sess.Timeline.AudioTrack).To(HaveLen(2))
		Expect(sess.Messages).To(BeEmpty())
	})

	It("shows later turns the timeline with earlier edits applied", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(toolUse("call_1", "remove_audio", `{"description": "drop it", "clip_id": "a2"}`)),
			textResponse("Done."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		_, err := o.Run(context.Background(), sess, "drop it")
		Expect(err).NotTo(HaveOccurred())

		Expect(model.requests).To(HaveLen(2))
		first := model.requests[0].Messages[0]
		second := model.requests[1].Messages[0]
		Expect(first.Role).To(Equal(llm.RoleSystem))
		Expect(first.GetText()).To(ContainSubstring(`"a2"`))
		Expect(second.GetText()).NotTo(ContainSubstring(`"a2"`))
	})

	It("feeds successful calls back as applied tool results", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(toolUse("call_1", "remove_audio", `{"description": "drop it", "clip_id": "a2"}`)),
			textResponse("Done."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		_, err := o.Run(context.Background(), sess, "drop it")
		Expect(err).NotTo(HaveOccurred())

		second := model.requests[1]
		last := second.Messages[len(second.Messages)-1]
		Expect(last.Role).To(Equal(llm.RoleTool))
		Expect(last.Content).To(HaveLen(1))
		Expect(last.Content[0].Type).To(Equal("tool_result"))
		Expect(last.Content[0].ToolResultID).To(Equal("call_1"))
		Expect(last.Content[0].ToolOutput).To(Equal("applied"))
		Expect(last.Content[0].IsError).To(BeFalse())
	})

	It("feeds invalid calls back as errored tool results and keeps going", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(
				toolUse("call_1", "remove_audio", `{"description": "missing the clip id"}`),
				toolUse("call_2", "remove_visual", `{"description": "drop visual", "clip_id": "v1"}`),
			),
			textResponse("Dropped what I could."),
		}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		result, err := o.Run(context.Background(), sess, "clean up")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Proposed).To(HaveLen(1))
		Expect(result.Proposed[0].MutationType()).To(Equal(mutation.TypeRemoveVisual))

		second := model.requests[1]
		last := second.Messages[len(second.Messages)-1]
		Expect(last.Content).To(HaveLen(2))
		Expect(last.Content[0].ToolResultID).To(Equal("call_1"))
		Expect(last.Content[0].IsError).To(BeTrue())
		Expect(last.Content[0].ToolOutput).To(ContainSubstring("remove_audio"))
		Expect(last.Content[1].ToolResultID).To(Equal("call_2"))
		Expect(last.Content[1].ToolOutput).To(Equal("applied"))
	})

	It("sends the system prompt, model name, and full tool set", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{textResponse("ok")}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		_, err := o.Run(context.Background(), sess, "hello")
		Expect(err).NotTo(HaveOccurred())

		req := model.requests[0]
		Expect(req.Model).To(Equal("qwen3"))
		Expect(req.System).To(Equal(agent.SystemPrompt))
		Expect(req.Tools).To(HaveLen(7))
	})

	It("carries prior session messages into the request", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{textResponse("ok")}}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		sess.Messages = []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "earlier question"),
			llm.NewTextMessage(llm.RoleAssistant, "earlier answer"),
		}

		result, err := o.Run(context.Background(), sess, "follow up")
		Expect(err).NotTo(HaveOccurred())

		req := model.requests[0]
		Expect(req.Messages[1].GetText()).To(Equal("earlier question"))
		Expect(req.Messages[2].GetText()).To(Equal("earlier answer"))
		Expect(req.Messages[3].GetText()).To(Equal("follow up"))

		Expect(result.Messages[0].GetText()).To(Equal("earlier question"))
		last := result.Messages[len(result.Messages)-1]
		Expect(last.GetText()).To(Equal("ok"))
	})

	It("stops after the turn cap even if the model keeps calling tools", func() {
		model := &scriptedModel{responses: []*llm.ChatResponse{
			toolResponse(toolUse("call_1", "remove_audio", `{"description": "drop it", "clip_id": "ghost"}`)),
		}}
		o := newOrchestrator(model, 3)

		sess := session.New(agentTimeline())
		result, err := o.Run(context.Background(), sess, "loop forever")
		Expect(err).NotTo(HaveOccurred())

		Expect(model.requests).To(HaveLen(3))
		Expect(result.Proposed).To(HaveLen(3))
	})

	It("propagates model failures", func() {
		model := &scriptedModel{err: errors.New("connection refused")}
		o := newOrchestrator(model, 0)

		sess := session.New(agentTimeline())
		_, err := o.Run(context.Background(), sess, "hello")
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})

var _ = Describe("BuildContext", func() {
	It("renders the refined timeline without nulls", func() {
		msg, err := agent.BuildContext(agentTimeline())
		Expect(err).NotTo(HaveOccurred())

		Expect(msg).To(HavePrefix("Current timeline:\n"))
		Expect(msg).To(ContainSubstring(`"audio_track"`))
		Expect(msg).To(ContainSubstring(`"end_ms"`))
		Expect(msg).To(ContainSubstring(`"scene_index"`))
		Expect(msg).NotTo(ContainSubstring("null"))
	})
})

var _ = Describe("Tools", func() {
	It("defines one tool per mutation variant with valid schemas", func() {
		tools := agent.Tools()
		Expect(tools).To(HaveLen(7))

		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, tool.Name)
			Expect(tool.Description).NotTo(BeEmpty())

			var schema map[string]any
			Expect(json.Unmarshal(tool.InputSchema, &schema)).To(Succeed())
			Expect(schema["type"]).To(Equal("object"))
		}
		Expect(names).To(Equal([]string{
			"add_audio", "add_visual",
			"remove_audio", "remove_visual",
			"modify_audio", "modify_visual",
			"retime_clips",
		}))
	})
})

var _ = Describe("MutationFromToolCall", func() {
	It("converts a tool_use block", func() {
		m, err := agent.MutationFromToolCall(toolUse("call_1", "remove_audio", `{"description": "drop it", "clip_id": "a1"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.MutationType()).To(Equal(mutation.TypeRemoveAudio))
	})

	It("rejects blocks of any other type", func() {
		_, err := agent.MutationFromToolCall(llm.ContentBlock{Type: "text", Text: "hi"})
		Expect(err).To(MatchError(ContainSubstring("not tool_use")))
	})
})

var _ = Describe("MutationsFromMessages", func() {
	It("extracts parseable calls in order and skips the rest", func() {
		messages := []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "clean up"),
			{Role: llm.RoleAssistant, Content: []llm.ContentBlock{
				toolUse("call_1", "remove_audio", `{"description": "first", "clip_id": "a1"}`),
				toolUse("call_2", "remove_audio", `{"description": "broken"}`),
			}},
			{Role: llm.RoleAssistant, Content: []llm.ContentBlock{
				toolUse("call_3", "remove_visual", `{"description": "last", "clip_id": "v1"}`),
			}},
		}

		muts := agent.MutationsFromMessages(messages)
		Expect(muts).To(HaveLen(2))
		Expect(muts[0].MutationType()).To(Equal(mutation.TypeRemoveAudio))
		Expect(muts[1].MutationType()).To(Equal(mutation.TypeRemoveVisual))

		Expect(strings.Join([]string{muts[0].Describe(), muts[1].Describe()}, "|")).
			To(Equal("first|last"))
	})
})
