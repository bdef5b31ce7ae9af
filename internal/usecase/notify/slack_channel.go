package notify

import (
	"context"

	"advisory-news/internal/infra/notifier"
)

// SlackChannel implements the Channel interface for Slack notifications.
// It wraps the SlackNotifier from the infrastructure layer, which handles
// rate limiting, retries, and webhook delivery.
type SlackChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel creates a Slack channel with the given configuration.
// When Slack notifications are disabled a NoOpNotifier is used so the
// Channel contract is always satisfied without nil checks.
func NewSlackChannel(config notifier.SlackConfig) *SlackChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &SlackChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "slack".
func (c *SlackChannel) Name() string {
	return "slack"
}

// IsEnabled returns whether Slack notifications are enabled via configuration.
func (c *SlackChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers the run summary to Slack.
func (c *SlackChannel) Send(ctx context.Context, summary *RunSummary) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if summary == nil {
		return ErrInvalidSummary
	}

	return c.notifier.NotifyRun(ctx, toReport(summary))
}

// toReport converts a RunSummary into the notifier wire payload.
func toReport(summary *RunSummary) *notifier.RunReport {
	return &notifier.RunReport{
		StartedAt:      summary.StartedAt,
		Duration:       summary.Duration,
		Sources:        summary.Sources,
		FailedSources:  summary.FailedSources,
		Fetched:        summary.Fetched,
		NewCount:       summary.NewCount,
		DuplicateCount: summary.DuplicateCount,
	}
}
