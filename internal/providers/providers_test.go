package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marquee/internal/config"
	"marquee/internal/providers"
)

func newTestConfig(provider, baseURL string) *config.Config {
	cfg := config.Default()
	cfg.LLM.Provider = provider
	cfg.LLM.TimeoutSeconds = 5
	settings := config.ProviderSettings{APIKey: "test-key", Model: "test-model", BaseURL: baseURL}
	switch provider {
	case "anthropic":
		cfg.LLM.Anthropic = settings
	case "gemini":
		cfg.LLM.Gemini = settings
	default:
		cfg.LLM.OpenAI = settings
	}
	return &cfg
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := newTestConfig("openai", "")
	cfg.LLM.Provider = "watson"
	if _, err := providers.New(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := newTestConfig("openai", "")
	cfg.LLM.OpenAI.APIKey = " "
	if _, err := providers.New(cfg); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"genre\":\"Musical\"}"}}]}`))
	}))
	defer server.Close()

	completer, err := providers.New(newTestConfig("openai", server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if completer.Name() != "openai" {
		t.Fatalf("Name = %q", completer.Name())
	}

	content, err := completer.Complete(context.Background(), providers.Request{Prompt: "describe"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"genre":"Musical"}` {
		t.Fatalf("content = %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("model = %v", gotBody["model"])
	}
}

func TestOpenAICompleteAttachesImage(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Content []map[string]any `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))
	defer server.Close()

	completer, err := providers.New(newTestConfig("openai", server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = completer.Complete(context.Background(), providers.Request{
		Prompt:    "extract",
		ImageData: []byte("fake image"),
		ImageMIME: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if len(gotBody.Messages) != 1 || len(gotBody.Messages[0].Content) != 2 {
		t.Fatalf("unexpected message shape: %+v", gotBody)
	}
	imagePart := gotBody.Messages[0].Content[1]
	if imagePart["type"] != "image_url" {
		t.Fatalf("second part = %v", imagePart)
	}
	url, _ := imagePart["image_url"].(map[string]any)
	if !strings.HasPrefix(url["url"].(string), "data:image/jpeg;base64,") {
		t.Fatalf("image url = %v", url["url"])
	}
}

func TestAnthropicComplete(t *testing.T) {
	var gotKey, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"first "},{"type":"text","text":"second"}]}`))
	}))
	defer server.Close()

	completer, err := providers.New(newTestConfig("anthropic", server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	content, err := completer.Complete(context.Background(), providers.Request{Prompt: "describe"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "first second" {
		t.Fatalf("content = %q", content)
	}
	if gotKey != "test-key" || gotVersion != "2023-06-01" {
		t.Fatalf("headers = %q / %q", gotKey, gotVersion)
	}
}

func TestGeminiComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"answer"}]}}]}`))
	}))
	defer server.Close()

	completer, err := providers.New(newTestConfig("gemini", server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	content, err := completer.Complete(context.Background(), providers.Request{Prompt: "describe"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "answer" {
		t.Fatalf("content = %q", content)
	}
}

func TestCompleteRetriesOnRateLimit(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	var slept []time.Duration
	completer, err := providers.New(
		newTestConfig("openai", server.URL),
		providers.WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	content, err := completer.Complete(context.Background(), providers.Request{Prompt: "retry"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "ok" {
		t.Fatalf("content = %q", content)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("slept = %v, want [1s]", slept)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer server.Close()

	completer, err := providers.New(
		newTestConfig("openai", server.URL),
		providers.WithSleeper(func(time.Duration) {}),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := completer.Complete(context.Background(), providers.Request{Prompt: "fail"}); err == nil {
		t.Fatal("expected error for http 400")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestCompleteEmptyContentFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	completer, err := providers.New(newTestConfig("openai", server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := completer.Complete(context.Background(), providers.Request{Prompt: "empty"}); err == nil {
		t.Fatal("expected error for empty content")
	}
}
