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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIClient struct {
	settings  config.ProviderSettings
	transport *transport
}

func newOpenAIClient(settings config.ProviderSettings, transport *transport) *openAIClient {
	if strings.TrimSpace(settings.BaseURL) == "" {
		settings.BaseURL = defaultOpenAIBaseURL
	}
	return &openAIClient{settings: settings, transport: transport}
}

func (c *openAIClient) Name() string { return "openai" }

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	var content any = req.Prompt
	if len(req.ImageData) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.ImageData))
		content = []openAIContentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
		}
	}

	payload := openAIRequest{
		Model:     c.settings.Model,
		Messages:  []openAIMessage{{Role: "user", Content: content}},
		MaxTokens: req.maxTokens(),
	}

	endpoint := strings.TrimRight(c.settings.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + c.settings.APIKey,
	}
	body, err := c.transport.postJSON(ctx, "openai complete", endpoint, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai complete: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai complete: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	for _, choice := range parsed.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
		if text := strings.TrimSpace(choice.Text); text != "" {
			return text, nil
		}
	}
	return "", errors.New("openai complete: empty response content")
}
