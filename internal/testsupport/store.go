package testsupport

import (
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

// MustOpenStore opens a catalog store for tests and closes it on cleanup.
func MustOpenStore(t *testing.T, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Errorf("close store: %v", closeErr)
		}
	})
	return store
}
