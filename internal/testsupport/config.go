// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// NewConfig returns a validated configuration rooted in a temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabasePath = filepath.Join(base, "shows.db")
	cfg.Paths.SeenDir = filepath.Join(base, "seen")
	cfg.Paths.WishlistDir = filepath.Join(base, "wishlist")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.LLM.Provider = "openai"
	cfg.LLM.OpenAI.APIKey = "test-key"
	cfg.Enrichment.AutoEnrich = false

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
