package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// Completer is the capability every backend client provides.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// transport carries the HTTP client and retry policy shared by all backends.
type transport struct {
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the transport behind a completer.
type Option func(*transport)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *transport) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(t *transport) {
		t.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(t *transport) {
		t.retryBaseDelay = baseDelay
		t.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(t *transport) {
		t.sleeper = sleeper
	}
}

func newTransport(timeoutSeconds int, opts ...Option) *transport {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	t := &transport{
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.httpClient == nil {
		t.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return t
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("provider request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// postJSON issues a POST with retries and returns the raw response body.
// Rate limits, server errors, and timeouts are retried with exponential
// backoff; a Retry-After header wins over the computed delay.
func (t *transport) postJSON(ctx context.Context, op, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}

	attempts := t.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := t.sendOnce(ctx, op, endpoint, headers, encoded)
		if err == nil {
			return body, nil
		}

		delay, retry := t.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return nil, err
		}
		if sleepErr := t.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return nil, fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (t *transport) sendOnce(ctx context.Context, op, endpoint string, headers map[string]string, encoded []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http error: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}
	return body, nil
}

func (t *transport) retryAttempts() int {
	if t == nil || t.retryMaxAttempts <= 0 {
		return 1
	}
	return t.retryMaxAttempts
}

func (t *transport) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return t.capDelay(statusErr.RetryAfter), true
			}
			return t.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return t.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return t.backoffDelay(attempt), true
	}

	return 0, false
}

func (t *transport) backoffDelay(attempt int) time.Duration {
	base := t.retryBaseDelay
	if base <= 0 {
		return 0
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > t.retryMaxDelay/2 {
			delay = t.retryMaxDelay
			break
		}
		delay *= 2
	}
	return t.capDelay(delay)
}

func (t *transport) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if t.retryMaxDelay > 0 && delay > t.retryMaxDelay {
		return t.retryMaxDelay
	}
	return delay
}

func (t *transport) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if t.sleeper != nil {
		t.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
