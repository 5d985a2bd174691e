package config

import (
	"fmt"
	"strings"
)

const (
	defaultDatabasePath   = "~/.local/share/marquee/shows.db"
	defaultSeenDir        = "~/Pictures/playbills/seen"
	defaultWishlistDir    = "~/Pictures/playbills/wishlist"
	defaultLogDir         = "~/.local/share/marquee/logs"
	defaultProvider       = "openai"
	defaultTimeoutSeconds = 120
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// Default returns the baseline configuration used when no file overrides a
// value.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			SeenDir:      defaultSeenDir,
			WishlistDir:  defaultWishlistDir,
			LogDir:       defaultLogDir,
		},
		LLM: LLM{
			Provider:       defaultProvider,
			TimeoutSeconds: defaultTimeoutSeconds,
			OpenAI:         ProviderSettings{Model: defaultOpenAIModel},
			Anthropic:      ProviderSettings{Model: defaultAnthropicModel},
			Gemini:         ProviderSettings{Model: defaultGeminiModel},
		},
		Enrichment: Enrichment{
			AutoEnrich: true,
		},
		Scan: Scan{
			ImageExtensions: defaultImageExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// normalize expands path fields and fills zero values with defaults.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DatabasePath, err = expandPath(valueOrDefault(c.Paths.DatabasePath, defaultDatabasePath)); err != nil {
		return fmt.Errorf("database path: %w", err)
	}
	if c.Paths.SeenDir, err = expandPath(valueOrDefault(c.Paths.SeenDir, defaultSeenDir)); err != nil {
		return fmt.Errorf("seen directory: %w", err)
	}
	if c.Paths.WishlistDir, err = expandPath(valueOrDefault(c.Paths.WishlistDir, defaultWishlistDir)); err != nil {
		return fmt.Errorf("wishlist directory: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(valueOrDefault(c.Paths.LogDir, defaultLogDir)); err != nil {
		return fmt.Errorf("log directory: %w", err)
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(valueOrDefault(c.LLM.Provider, defaultProvider)))
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultTimeoutSeconds
	}

	if len(c.Scan.ImageExtensions) == 0 {
		c.Scan.ImageExtensions = defaultImageExtensions()
	}
	normalized := make([]string, 0, len(c.Scan.ImageExtensions))
	for _, ext := range c.Scan.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Scan.ImageExtensions = normalized

	trimmed := make([]string, 0, len(c.Enrichment.UserCategories))
	for _, category := range c.Enrichment.UserCategories {
		if category = strings.TrimSpace(category); category != "" {
			trimmed = append(trimmed, category)
		}
	}
	c.Enrichment.UserCategories = trimmed

	c.Logging.Format = strings.ToLower(strings.TrimSpace(valueOrDefault(c.Logging.Format, defaultLogFormat)))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(valueOrDefault(c.Logging.Level, defaultLogLevel)))

	return nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
