// Package notify dispatches aggregation run summaries to operator-facing
// channels (Slack, Discord). Dispatch is asynchronous with a bounded worker
// pool; a slow or failing webhook never blocks the aggregation pipeline.
package notify

import (
	"context"
	"time"
)

// RunSummary is the payload delivered to every enabled channel after an
// aggregation run completes.
type RunSummary struct {
	StartedAt      time.Time
	Duration       time.Duration
	Sources        int      // sources attempted
	FailedSources  []string // names of sources whose fetch failed
	Fetched        int      // candidate articles within the recency window
	NewCount       int      // articles inserted
	DuplicateCount int      // candidates skipped as duplicates
}

// Channel represents a notification delivery channel.
//
// Retry policy contract:
//   - Transient failures (5xx, network errors): retry with exponential backoff
//   - Rate limits (429): wait for retry_after, then retry
//   - Other client errors (4xx): no retry
//   - Context timeout: no retry
//
// All methods must be safe for concurrent use.
type Channel interface {
	// Name returns the channel identifier (lowercase, e.g. "slack").
	Name() string

	// IsEnabled reports whether the channel is enabled via configuration.
	// Disabled channels are skipped during dispatch.
	IsEnabled() bool

	// Send delivers a run summary to this channel. Implementations must
	// respect context cancellation and apply their own rate limiting.
	Send(ctx context.Context, summary *RunSummary) error
}
