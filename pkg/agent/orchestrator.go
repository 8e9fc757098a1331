// Package agent implements the orchestration loop boundary between the
// language model and the timeline core: context serialization, tool-call to
// mutation conversion, streamed fragment accumulation, and the turn loop that
// gathers a pending proposal batch for the user to accept or reject.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/session"
)

const defaultMaxTurns = 8

// Model is the opaque language-model client. Construction, credentials, and
// teardown are owned by the caller and injected here; the agent issues one
// request at a time and never calls anywhere else.
type Model interface {
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}

// Config configures an Orchestrator.
type Config struct {
	// Model is the injected language-model client.
	Model Model

	// ModelName is passed through on every request.
	ModelName string

	// MaxTurns caps the tool-call loop per user request (default 8).
	MaxTurns int

	// Logger receives loop progress at debug level.
	Logger *slog.Logger
}

// Orchestrator drives the edit loop: serialize timeline and history, call the
// model, parse tool calls into mutations, and repeat until the model stops
// calling tools. Mutations are collected as a proposal batch; nothing is
// applied to the session's timeline until the user accepts.
type Orchestrator struct {
	model     Model
	modelName string
	maxTurns  int
	logger    *slog.Logger
}

// Result is the outcome of one user request through the loop.
type Result struct {
	// Reply is the model's final plain-text response.
	Reply string

	// Proposed is the ordered mutation batch gathered across all turns.
	Proposed []mutation.Mutation

	// Messages is the conversation history including this exchange.
	Messages []llm.Message
}

// NewOrchestrator validates the config and builds an Orchestrator.
func NewOrchestrator(c Config) (*Orchestrator, error) {
	if c.Model == nil {
		return nil, errors.New("model is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	maxTurns := c.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Orchestrator{
		model:     c.Model,
		modelName: c.ModelName,
		maxTurns:  maxTurns,
		logger:    c.Logger,
	}, nil
}

// Run executes the loop for one user request against a session. The session
// itself is not modified; the caller stages Result.Proposed via
// session.Propose and applies it on user accept. A working copy of the
// timeline absorbs each mutation as it parses so later turns see the state
// their earlier edits produced.
func (o *Orchestrator) Run(ctx context.Context, sess *session.Session, userText string) (*Result, error) {
	working := sess.Snapshot()
	messages := append([]llm.Message(nil), sess.Messages...)
	messages = append(messages, llm.NewTextMessage(llm.RoleUser, userText))

	var proposed []mutation.Mutation
	var reply string

	for turn := 0; turn < o.maxTurns; turn++ {
		contextMsg, err := BuildContext(working)
		if err != nil {
			return nil, err
		}

		req := &llm.ChatRequest{
			Model:    o.modelName,
			System:   SystemPrompt,
			Messages: append([]llm.Message{llm.NewTextMessage(llm.RoleSystem, contextMsg)}, messages...),
			Tools:    Tools(),
		}

		resp, err := o.model.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("model request failed: %w", err)
		}

		messages = append(messages, resp.Message)
		reply = resp.Message.GetText()

		toolUses := resp.Message.ToolUses()
		if len(toolUses) == 0 {
			break
		}

		var results []llm.ContentBlock
		for _, block := range toolUses {
			m, err := MutationFromToolCall(block)
			if err != nil {
				// Surface the failure to the model as an errored tool
				// result so it can see and correct its own call.
				o.logger.Warn("rejecting tool call", "tool", block.ToolName, "error", err)
				results = append(results, llm.ContentBlock{
					Type:         "tool_result",
					ToolResultID: block.ToolUseID,
					ToolOutput:   err.Error(),
					IsError:      true,
				})
				continue
			}

			working = mutation.Apply(working, m)
			proposed = append(proposed, m)
			results = append(results, llm.ContentBlock{
				Type:         "tool_result",
				ToolResultID: block.ToolUseID,
				ToolOutput:   "applied",
			})
			o.logger.Debug("staged mutation",
				"type", m.MutationType(),
				"description", m.Describe(),
			)
		}

		messages = append(messages, llm.Message{Role: llm.RoleTool, Content: results})
	}

	return &Result{
		Reply:    reply,
		Proposed: proposed,
		Messages: messages,
	}, nil
}
