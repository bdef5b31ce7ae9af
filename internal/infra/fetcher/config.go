package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"advisory-news/internal/pkg/config"
)

// ExcerptConfig controls the excerpt enricher. Enrichment is off by
// default: items without a description keep the empty-string default
// unless a deployment opts in.
type ExcerptConfig struct {
	// Enabled toggles enrichment. Loaded from EXCERPT_FETCH_ENABLED.
	Enabled bool

	// Timeout bounds a single page fetch.
	Timeout time.Duration

	// MaxExcerptChars caps the extracted text length.
	MaxExcerptChars int

	// MaxBodySize caps the HTTP response body in bytes.
	MaxBodySize int64

	// MaxRedirects caps the redirect chain; each hop is re-validated.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private address space.
	DenyPrivateIPs bool
}

// DefaultExcerptConfig returns the enricher defaults.
func DefaultExcerptConfig() ExcerptConfig {
	return ExcerptConfig{
		Enabled:         false,
		Timeout:         10 * time.Second,
		MaxExcerptChars: 500,
		MaxBodySize:     10 * 1024 * 1024,
		MaxRedirects:    5,
		DenyPrivateIPs:  true,
	}
}

// Validate checks the configuration and returns the first violation.
func (c *ExcerptConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxExcerptChars < 50 || c.MaxExcerptChars > 5000 {
		return fmt.Errorf("max excerpt chars must be between 50 and 5000, got %d", c.MaxExcerptChars)
	}
	minBody, maxBody := int64(1024), int64(100*1024*1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadExcerptConfig builds the enricher configuration from environment
// variables. Invalid values fall back to defaults with a warning.
func LoadExcerptConfig() ExcerptConfig {
	cfg := DefaultExcerptConfig()

	enabled := config.LoadEnvBool("EXCERPT_FETCH_ENABLED", cfg.Enabled)
	cfg.Enabled = enabled.Value.(bool)
	logWarnings("enabled", enabled)

	timeout := config.LoadEnvDuration("EXCERPT_FETCH_TIMEOUT", cfg.Timeout, config.ValidatePositiveDuration)
	cfg.Timeout = timeout.Value.(time.Duration)
	logWarnings("timeout", timeout)

	chars := config.LoadEnvInt("EXCERPT_MAX_CHARS", cfg.MaxExcerptChars, func(v int) error {
		return config.ValidateIntRange(v, 50, 5000)
	})
	cfg.MaxExcerptChars = chars.Value.(int)
	logWarnings("max_chars", chars)

	redirects := config.LoadEnvInt("EXCERPT_MAX_REDIRECTS", cfg.MaxRedirects, func(v int) error {
		return config.ValidateIntRange(v, 0, 10)
	})
	cfg.MaxRedirects = redirects.Value.(int)
	logWarnings("max_redirects", redirects)

	deny := config.LoadEnvBool("EXCERPT_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.DenyPrivateIPs = deny.Value.(bool)
	logWarnings("deny_private_ips", deny)

	return cfg
}

func logWarnings(field string, result config.ConfigLoadResult) {
	for _, warning := range result.Warnings {
		slog.Warn("excerpt config fallback", "field", field, "warning", warning)
	}
}
