// Package notifier implements webhook delivery of aggregation run reports.
// It defines the Notifier interface which allows different delivery mechanisms
// (Slack, Discord) to be used interchangeably, plus a no-op implementation
// for when notifications are disabled.
package notifier

import (
	"context"
	"time"
)

// RunReport is the wire-ready summary of an aggregation run.
type RunReport struct {
	StartedAt      time.Time
	Duration       time.Duration
	Sources        int
	FailedSources  []string
	Fetched        int
	NewCount       int
	DuplicateCount int
}

// Notifier is an interface for delivering run reports.
// Implementations handle rate limiting, retries, and error logging internally.
type Notifier interface {
	// NotifyRun delivers a run report to the configured destination.
	//
	// Implementations should:
	//   - Generate a unique request ID for tracing
	//   - Apply rate limiting to prevent API abuse
	//   - Retry transient failures with exponential backoff
	//   - Respect context cancellation
	NotifyRun(ctx context.Context, report *RunReport) error
}
