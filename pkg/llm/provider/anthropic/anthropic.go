// Package anthropic implements a chat client for the Anthropic Messages API.
package anthropic

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

const (
	messagesPath = "/v1/messages"
	apiVersion   = "2023-06-01"

	// Used when the request does not set a limit; max_tokens is mandatory
	// on this API.
	defaultMaxTokens = 4096
)

// Client talks to the Anthropic Messages API.
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
	return "anthropic"
}

// Complete performs a non-streaming completion.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encoding anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading anthropic response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp messagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding anthropic response: %w", err)
	}

	return parseResponse(resp), nil
}

// buildRequest converts the neutral request into Anthropic's wire format.
// The system prompt rides as a top-level field, and tool results travel
// inside user-role messages.
func buildRequest(req *llm.ChatRequest) messagesRequest {
	out := messagesRequest{
		Model:       req.Model,
		System:      req.System,
		MaxTokens:   defaultMaxTokens,
		Temperature: req.Temperature,
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, convertMessage(msg))
	}

	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, toolDef{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	return out
}

func convertMessage(msg llm.Message) chatMessage {
	role := msg.Role
	if role == llm.RoleTool {
		role = llm.RoleUser
	}

	converted := chatMessage{Role: role}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			converted.Content = append(converted.Content, contentBlock{
				Type: "text",
				Text: block.Text,
			})
		case "tool_use":
			converted.Content = append(converted.Content, contentBlock{
				Type:  "tool_use",
				ID:    block.ToolUseID,
				Name:  block.ToolName,
				Input: block.ToolInput,
			})
		case "tool_result":
			converted.Content = append(converted.Content, contentBlock{
				Type:      "tool_result",
				ToolUseID: block.ToolResultID,
				Content:   block.ToolOutput,
				IsError:   block.IsError,
			})
		}
	}
	return converted
}

func parseResponse(resp messagesResponse) *llm.ChatResponse {
	var content []llm.ContentBlock
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content = append(content, llm.ContentBlock{Type: "text", Text: block.Text})
		case "tool_use":
			content = append(content, llm.ContentBlock{
				Type:      "tool_use",
				ToolUseID: block.ID,
				ToolName:  block.Name,
				ToolInput: block.Input,
			})
		}
	}

	stopReason := resp.StopReason
	if stopReason == "end_turn" {
		stopReason = "stop"
	}

	out := &llm.ChatResponse{
		Model: resp.Model,
		Message: llm.Message{
			Role:    llm.RoleAssistant,
			Content: content,
		},
		StopReason: stopReason,
	}
	if resp.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return out
}
