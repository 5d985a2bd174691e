package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates a provider reply that is not usable JSON
// even after stripping formatting quirks.
var ErrMalformedResponse = errors.New("malformed provider response")

// Parse strips a surrounding Markdown code fence (with an optional json
// language tag) from a provider reply and returns the remaining text, which
// must be valid JSON.
func Parse(raw string) (string, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" || !json.Valid([]byte(cleaned)) {
		return "", fmt.Errorf("%w (payload snippet: %s)", ErrMalformedResponse, payloadSnippet(raw))
	}
	return cleaned, nil
}

// Decode parses a provider reply and unmarshals it into target.
func Decode(raw string, target any) error {
	cleaned, err := Parse(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("%w: %v (payload snippet: %s)", ErrMalformedResponse, err, payloadSnippet(cleaned))
	}
	return nil
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func payloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := strings.Join(strings.Fields(replacer.Replace(trimmed)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
