// Package providers sends prompts to the configured LLM backend.
package providers

import (
	"fmt"
	"strings"

	"marquee/internal/config"
)

const defaultMaxTokens = 2000

// Request is a single completion request. ImageData, when present, attaches
// an image to the prompt using whatever multimodal encoding the backend
// expects.
type Request struct {
	Prompt    string
	ImageData []byte
	ImageMIME string
	MaxTokens int
}

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return defaultMaxTokens
}

// New constructs the completer selected by configuration.
func New(cfg *config.Config, opts ...Option) (Completer, error) {
	name, settings := cfg.ActiveProvider()
	if strings.TrimSpace(settings.APIKey) == "" {
		return nil, fmt.Errorf("provider %s: api key required", name)
	}
	if strings.TrimSpace(settings.Model) == "" {
		return nil, fmt.Errorf("provider %s: model required", name)
	}

	transport := newTransport(cfg.LLM.TimeoutSeconds, opts...)
	switch name {
	case "openai":
		return newOpenAIClient(settings, transport), nil
	case "anthropic":
		return newAnthropicClient(settings, transport), nil
	case "gemini":
		return newGeminiClient(settings, transport), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.LLM.Provider)
	}
}
