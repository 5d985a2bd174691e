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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiClient struct {
	settings  config.ProviderSettings
	transport *transport
}

func newGeminiClient(settings config.ProviderSettings, transport *transport) *geminiClient {
	if strings.TrimSpace(settings.BaseURL) == "" {
		settings.BaseURL = defaultGeminiBaseURL
	}
	return &geminiClient{settings: settings, transport: transport}
}

func (c *geminiClient) Name() string { return "gemini" }

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	parts := []geminiPart{{Text: req.Prompt}}
	if len(req.ImageData) > 0 {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: req.ImageMIME,
			Data:     base64.StdEncoding.EncodeToString(req.ImageData),
		}})
	}

	var payload geminiRequest
	payload.Contents = []geminiContent{{Parts: parts}}
	payload.GenerationConfig.MaxOutputTokens = req.maxTokens()

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.settings.BaseURL, "/"), c.settings.Model)
	headers := map[string]string{
		"x-goog-api-key": c.settings.APIKey,
	}
	body, err := c.transport.postJSON(ctx, "gemini complete", endpoint, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini complete: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini complete: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	var builder strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
		break
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("gemini complete: empty response content")
	}
	return text, nil
}
