package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marquee/internal/config"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

type anthropicClient struct {
	settings  config.ProviderSettings
	transport *transport
}

func newAnthropicClient(settings config.ProviderSettings, transport *transport) *anthropicClient {
	if strings.TrimSpace(settings.BaseURL) == "" {
		settings.BaseURL = defaultAnthropicBaseURL
	}
	return &anthropicClient{settings: settings, transport: transport}
}

func (c *anthropicClient) Name() string { return "anthropic" }

type anthropicContentPart struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string                 `json:"role"`
	Content []anthropicContentPart `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	// Anthropic wants image blocks ahead of the text prompt.
	var parts []anthropicContentPart
	if len(req.ImageData) > 0 {
		parts = append(parts, anthropicContentPart{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: req.ImageMIME,
				Data:      base64.StdEncoding.EncodeToString(req.ImageData),
			},
		})
	}
	parts = append(parts, anthropicContentPart{Type: "text", Text: req.Prompt})

	payload := anthropicRequest{
		Model:     c.settings.Model,
		MaxTokens: req.maxTokens(),
		Messages:  []anthropicMessage{{Role: "user", Content: parts}},
	}

	endpoint := strings.TrimRight(c.settings.BaseURL, "/") + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         c.settings.APIKey,
		"anthropic-version": anthropicVersion,
	}
	body, err := c.transport.postJSON(ctx, "anthropic complete", endpoint, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("anthropic complete: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic complete: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	var builder strings.Builder
	for _, part := range parsed.Content {
		if part.Type == "text" {
			builder.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("anthropic complete: empty response content")
	}
	return text, nil
}
