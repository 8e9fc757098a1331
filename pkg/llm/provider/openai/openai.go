// Package openai implements a chat client for the OpenAI chat completions
// API and compatible servers.
package openai

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

const completionsPath = "/v1/chat/completions"

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the server at baseURL authenticated with apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) Name() string {
	return "openai"
}

// Complete performs a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encoding openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling openai: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading openai response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding openai response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseResponse(resp), nil
}

func buildRequest(req *llm.ChatRequest) chatRequest {
	out := chatRequest{
		Model:       req.Model,
		Stream:      false,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
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

	return out
}

func convertMessage(msg llm.Message) []chatMessage {
	// Each tool result becomes its own tool-role message keyed by the
	// originating call id.
	if msg.Role == llm.RoleTool {
		var out []chatMessage
		for _, block := range msg.Content {
			if block.Type != "tool_result" {
				continue
			}
			out = append(out, chatMessage{
				Role:       llm.RoleTool,
				Content:    block.ToolOutput,
				ToolCallID: block.ToolResultID,
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
				ID:   block.ToolUseID,
				Type: "function",
				Function: functionCall{
					Name:      block.ToolName,
					Arguments: string(block.ToolInput),
				},
			})
		}
	}
	return []chatMessage{converted}
}

func parseResponse(resp chatResponse) *llm.ChatResponse {
	msg := resp.Choices[0].Message

	var content []llm.ContentBlock
	if msg.Content != "" {
		content = append(content, llm.ContentBlock{Type: "text", Text: msg.Content})
	}
	for _, call := range msg.ToolCalls {
		content = append(content, llm.ContentBlock{
			Type:      "tool_use",
			ToolUseID: call.ID,
			ToolName:  call.Function.Name,
			ToolInput: json.RawMessage(call.Function.Arguments),
		})
	}

	stopReason := resp.Choices[0].FinishReason
	if stopReason == "tool_calls" {
		stopReason = "tool_use"
	}

	out := &llm.ChatResponse{
		Model: resp.Model,
		Message: llm.Message{
			Role:    llm.RoleAssistant,
			Content: content,
		},
		StopReason: stopReason,
	}
	if resp.Created > 0 {
		out.CreatedAt = time.Unix(resp.Created, 0).UTC()
	}
	if resp.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out
}
