package testsupport

import (
	"context"
	"errors"
	"sync"

	"marquee/internal/providers"
)

// FakeCompleter satisfies providers.Completer for tests. Responses are
// consumed in order; Err, when set, fails every call.
type FakeCompleter struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Requests  []providers.Request
}

func (f *FakeCompleter) Name() string { return "fake" }

func (f *FakeCompleter) Complete(_ context.Context, req providers.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) == 0 {
		return "", errors.New("fake completer: no responses queued")
	}
	response := f.Responses[0]
	f.Responses = f.Responses[1:]
	return response, nil
}

// CallCount returns how many completion requests were made.
func (f *FakeCompleter) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
