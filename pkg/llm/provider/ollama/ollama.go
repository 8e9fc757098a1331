// Package ollama implements a chat client for Ollama's native /api/chat
// endpoint, including tool calling.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kronoshq/kronos/pkg/llm"
)

const chatPath = "/api/chat"

// Client talks to one Ollama server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the Ollama server at the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) Name() string {
	return "ollama"
}

// Complete performs a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling ollama: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading ollama response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}

	return parseResponse(resp), nil
}

// buildRequest converts the neutral request into Ollama's wire format.
// The system prompt becomes a leading system message; tool_result blocks
// become individual role "tool" messages.
func buildRequest(req *llm.ChatRequest) chatRequest {
	out := chatRequest{
		Model:  req.Model,
		Stream: false,
	}

	if req.System != "" {
		out.Messages = append(out.Messages, chatMessage{
			Role:    llm.RoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, convertMessage(msg)...)
	}

	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, toolDef{
			Type: "function",
			Function: functionDef{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}

	if req.Temperature != nil || req.MaxTokens != nil {
		out.Options = &options{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}

	return out
}

func convertMessage(msg llm.Message) []chatMessage {
	// Tool results each become their own tool-role message.
	if msg.Role == llm.RoleTool {
		var out []chatMessage
		for _, block := range msg.Content {
			if block.Type != "tool_result" {
				continue
			}
			out = append(out, chatMessage{
				Role:    llm.RoleTool,
				Content: block.ToolOutput,
			})
		}
		return out
	}

	converted := chatMessage{Role: msg.Role}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			converted.Content += block.Text
		case "tool_use":
			converted.ToolCalls = append(converted.ToolCalls, toolCall{
				Function: functionCall{
					Name:      block.ToolName,
					Arguments: block.ToolInput,
				},
			})
		}
	}
	return []chatMessage{converted}
}

// parseResponse converts Ollama's reply into the neutral response. Ollama
// does not assign tool call ids, so ids are synthesized from the call index.
func parseResponse(resp chatResponse) *llm.ChatResponse {
	var content []llm.ContentBlock
	if resp.Message.Content != "" {
		content = append(content, llm.ContentBlock{Type: "text", Text: resp.Message.Content})
	}
	for i, call := range resp.Message.ToolCalls {
		content = append(content, llm.ContentBlock{
			Type:      "tool_use",
			ToolUseID: fmt.Sprintf("call_%d_%s", i, call.Function.Name),
			ToolName:  call.Function.Name,
			ToolInput: call.Function.Arguments,
		})
	}

	stopReason := resp.DoneReason
	if stopReason == "" && resp.Done {
		stopReason = "stop"
	}
	if len(resp.Message.ToolCalls) > 0 {
		stopReason = "tool_use"
	}

	var usage *llm.Usage
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		usage = &llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}

	return &llm.ChatResponse{
		Model:     resp.Model,
		CreatedAt: resp.CreatedAt,
		Message: llm.Message{
			Role:    llm.RoleAssistant,
			Content: content,
		},
		StopReason: stopReason,
		Usage:      usage,
	}
}
