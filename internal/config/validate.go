package config

import (
	"errors"
	"fmt"
	"strings"
)

var supportedProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"gemini":    true,
}

var supportedLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Validate checks the configuration for correctness and reports every problem
// found.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		problems = append(problems, "paths.database_path must be set")
	}

	provider := strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if !supportedProviders[provider] {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported (openai, anthropic, gemini)", c.LLM.Provider))
	} else {
		_, settings := c.ActiveProvider()
		if strings.TrimSpace(settings.APIKey) == "" {
			problems = append(problems, fmt.Sprintf("llm.%s.api_key must be set (config file or environment)", provider))
		}
		if strings.TrimSpace(settings.Model) == "" {
			problems = append(problems, fmt.Sprintf("llm.%s.model must be set", provider))
		}
	}

	if c.LLM.TimeoutSeconds <= 0 {
		problems = append(problems, "llm.timeout_seconds must be positive")
	}

	if !supportedLogFormats[c.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
