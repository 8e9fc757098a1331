package agent

import (
	"fmt"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/mutation"
)

// MutationFromToolCall converts one tool_use content block into a typed
// mutation. Blocks of any other type are rejected.
func MutationFromToolCall(block llm.ContentBlock) (mutation.Mutation, error) {
	if block.Type != "tool_use" {
		return nil, fmt.Errorf("content block is %q, not tool_use", block.Type)
	}
	m, err := mutation.FromToolCall(block.ToolName, block.ToolInput)
	if err != nil {
		return nil, fmt.Errorf("tool call %s: %w", block.ToolName, err)
	}
	return m, nil
}

// MutationsFromMessages extracts every parseable mutation from the tool_use
// blocks of a message history, in order. Unparseable calls are skipped; the
// orchestration loop reports those back to the model as errored tool results
// at the time they happen, so re-extraction here stays lossy-but-quiet.
func MutationsFromMessages(messages []llm.Message) []mutation.Mutation {
	var mutations []mutation.Mutation
	for _, msg := range messages {
		for _, block := range msg.ToolUses() {
			m, err := MutationFromToolCall(block)
			if err != nil {
				continue
			}
			mutations = append(mutations, m)
		}
	}
	return mutations
}
