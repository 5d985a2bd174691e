package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	DatabasePath string `toml:"database_path"`
	SeenDir      string `toml:"seen_dir"`
	WishlistDir  string `toml:"wishlist_dir"`
	LogDir       string `toml:"log_dir"`
}

// ProviderSettings holds the connection settings for one LLM backend.
type ProviderSettings struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// LLM selects and configures the metadata provider backend.
type LLM struct {
	Provider       string           `toml:"provider"`
	TimeoutSeconds int              `toml:"timeout_seconds"`
	OpenAI         ProviderSettings `toml:"openai"`
	Anthropic      ProviderSettings `toml:"anthropic"`
	Gemini         ProviderSettings `toml:"gemini"`
}

// Enrichment contains metadata enrichment behavior settings.
type Enrichment struct {
	AutoEnrich     bool     `toml:"auto_enrich"`
	UserCategories []string `toml:"user_categories"`
}

// Scan contains playbill image scanning settings.
type Scan struct {
	ImageExtensions []string `toml:"image_extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for marquee.
//
// Configuration sections by subsystem:
//   - Paths: catalog database, image directories, log directory
//   - LLM: provider selection plus per-backend connection settings
//   - Enrichment: auto-enrich default and the user category list
//   - Scan: image extensions considered during directory scans
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	LLM        LLM        `toml:"llm"`
	Enrichment Enrichment `toml:"enrichment"`
	Scan       Scan       `toml:"scan"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized, and API keys filled from the
// environment where the file leaves them empty.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvironment()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marquee.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// applyEnvironment fills empty API keys from the process environment. A .env
// file in the working directory is honored when present.
func (c *Config) applyEnvironment() {
	_ = godotenv.Load()

	if c.LLM.OpenAI.APIKey == "" {
		c.LLM.OpenAI.APIKey = firstEnv("MARQUEE_OPENAI_API_KEY", "OPENAI_API_KEY")
	}
	if c.LLM.Anthropic.APIKey == "" {
		c.LLM.Anthropic.APIKey = firstEnv("MARQUEE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	}
	if c.LLM.Gemini.APIKey == "" {
		c.LLM.Gemini.APIKey = firstEnv("MARQUEE_GEMINI_API_KEY", "GEMINI_API_KEY")
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

// ActiveProvider returns the normalized provider name and its settings.
func (c *Config) ActiveProvider() (string, ProviderSettings) {
	name := strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch name {
	case "anthropic":
		return name, c.LLM.Anthropic
	case "gemini":
		return name, c.LLM.Gemini
	default:
		return name, c.LLM.OpenAI
	}
}

// EnsureDirectories creates the directories marquee needs to operate. Image
// directories are created on a best-effort basis so the CLI keeps working when
// a photo library lives on storage that is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Paths.DatabasePath)
	for _, dir := range []string{dbDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.SeenDir, c.Paths.WishlistDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
