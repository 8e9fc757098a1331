package llm

// StreamChunk represents a single chunk in a streaming response, after the
// provider-specific format has been normalized.
type StreamChunk struct {
	// Model that generated the chunk
	Model string `json:"model"`

	// Partial text content of this chunk, if any
	Text string `json:"text,omitempty"`

	// Partial tool-call fragment carried by this chunk, if any
	ToolCall *ToolCallDelta `json:"tool_call,omitempty"`

	// Whether this is the final chunk
	Done bool `json:"done"`

	// Stop reason (only present on final chunk)
	StopReason string `json:"stop_reason,omitempty"`

	// Usage metrics (typically only present on final chunk)
	Usage *Usage `json:"usage,omitempty"`
}

// ToolCallDelta is an incremental fragment of a tool call emitted mid-stream.
// The call's id and name arrive on the first fragment for a given index;
// later fragments append to the JSON arguments. A complete call is only
// parseable once every fragment for its index has been accumulated.
type ToolCallDelta struct {
	// Index distinguishes parallel tool calls within one response
	Index int `json:"index"`

	// ID of the tool call (first fragment only)
	ID string `json:"id,omitempty"`

	// Name of the tool being called (first fragment only)
	Name string `json:"name,omitempty"`

	// ArgumentsFragment is the next piece of the call's JSON arguments
	ArgumentsFragment string `json:"arguments_fragment,omitempty"`
}
