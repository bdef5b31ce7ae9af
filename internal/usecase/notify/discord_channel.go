package notify

import (
	"context"

	"advisory-news/internal/infra/notifier"
)

// DiscordChannel implements the Channel interface for Discord notifications.
// It wraps the DiscordNotifier from the infrastructure layer.
type DiscordChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel creates a Discord channel with the given configuration.
// When Discord notifications are disabled a NoOpNotifier is used.
func NewDiscordChannel(config notifier.DiscordConfig) *DiscordChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &DiscordChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "discord".
func (c *DiscordChannel) Name() string {
	return "discord"
}

// IsEnabled returns whether Discord notifications are enabled via configuration.
func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers the run summary to Discord.
func (c *DiscordChannel) Send(ctx context.Context, summary *RunSummary) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if summary == nil {
		return ErrInvalidSummary
	}

	return c.notifier.NotifyRun(ctx, toReport(summary))
}
