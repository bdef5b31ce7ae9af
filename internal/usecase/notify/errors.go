package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that Send() was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidSummary indicates that the run summary is nil.
	ErrInvalidSummary = errors.New("invalid run summary")
)
