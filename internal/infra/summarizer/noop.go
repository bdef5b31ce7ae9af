package summarizer

import (
	"context"

	"advisory-news/internal/utils/text"
)

// NoOp returns the original text truncated to the configured limit.
// Used when no API key is configured and in development.
type NoOp struct {
	config Config
}

// NewNoOp creates a NoOp summarizer honoring SUMMARIZER_CHAR_LIMIT.
func NewNoOp() *NoOp {
	return &NoOp{config: LoadConfig("noop")}
}

func (n *NoOp) Summarize(_ context.Context, input string) (string, error) {
	return text.Truncate(input, n.config.CharacterLimit), nil
}
