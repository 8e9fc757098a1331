// Package provider implements outbound chat clients for the supported LLM
// providers. Each subpackage speaks one provider's wire format and converts
// to and from the neutral llm types.
package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/llm/provider/anthropic"
	"github.com/kronoshq/kronos/pkg/llm/provider/ollama"
	"github.com/kronoshq/kronos/pkg/llm/provider/openai"
)

// Client executes chat completions against one provider.
type Client interface {
	// Name identifies the provider.
	Name() string

	// Complete performs a single non-streaming chat completion.
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}

// Supported returns the recognized provider names.
func Supported() []string {
	return []string{"ollama", "openai", "anthropic"}
}

// New returns a client for the named provider targeting the given base URL.
// API keys are read from the provider's conventional environment variable.
func New(name, target string) (Client, error) {
	switch strings.ToLower(name) {
	case "ollama":
		return ollama.New(target), nil
	case "openai":
		return openai.New(target, os.Getenv("OPENAI_API_KEY")), nil
	case "anthropic":
		return anthropic.New(target, os.Getenv("ANTHROPIC_API_KEY")), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", name, strings.Join(Supported(), ", "))
	}
}
