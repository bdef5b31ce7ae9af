package summarizer

import (
	"fmt"
	"log/slog"
	"time"

	"advisory-news/internal/pkg/config"
)

const (
	// minCharLimit and maxCharLimit bound the configurable summary length.
	minCharLimit = 100
	maxCharLimit = 5000

	defaultCharLimit = 600
	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second
)

// Config holds the shared settings for a summarization provider.
type Config struct {
	// CharacterLimit is the maximum length of a generated summary in
	// characters. Loaded from SUMMARIZER_CHAR_LIMIT.
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens caps the API response size.
	MaxTokens int

	// Timeout bounds a single summarization call.
	Timeout time.Duration
}

// Validate checks the configuration and returns the first violation.
func (c *Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// ValidateCharacterLimit reports whether limit falls inside the
// supported range.
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// LoadConfig builds a provider configuration for the given model,
// reading the character limit from SUMMARIZER_CHAR_LIMIT. Invalid
// values fall back to the default with a warning.
func LoadConfig(model string) Config {
	result := config.LoadEnvInt("SUMMARIZER_CHAR_LIMIT", defaultCharLimit, ValidateCharacterLimit)
	for _, warning := range result.Warnings {
		slog.Warn("summarizer config fallback", "warning", warning)
	}

	return Config{
		CharacterLimit: result.Value.(int),
		Model:          model,
		MaxTokens:      defaultMaxTokens,
		Timeout:        defaultTimeout,
	}
}
