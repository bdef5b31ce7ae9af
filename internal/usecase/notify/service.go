package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	workerPoolTimeout   = 5 * time.Second  // timeout for acquiring a worker slot
	notificationTimeout = 30 * time.Second // timeout for an individual send
)

// Service dispatches run summaries to all enabled channels without
// blocking the caller.
type Service interface {
	// NotifyRunCompleted dispatches a run summary to all enabled channels.
	// It is non-blocking and returns immediately; sends happen in background
	// goroutines and failures are logged, not propagated.
	NotifyRunCompleted(ctx context.Context, summary *RunSummary) error

	// Shutdown waits for in-flight notifications to complete or for the
	// context to expire.
	Shutdown(ctx context.Context) error
}

type service struct {
	channels       []Channel
	workerPool     chan struct{} // semaphore limiting concurrent sends
	wg             sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewService creates a notification service over the given channels.
// maxConcurrent bounds the number of simultaneous webhook sends.
func NewService(channels []Channel, maxConcurrent int) Service {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	return &service{
		channels:       channels,
		workerPool:     make(chan struct{}, maxConcurrent),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
}

// NotifyRunCompleted implements Service.NotifyRunCompleted.
func (s *service) NotifyRunCompleted(_ context.Context, summary *RunSummary) error {
	if summary == nil {
		slog.Warn("nil run summary, skipping notification dispatch")
		return nil
	}

	enabledCount := 0
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabledCount++
		}
	}
	SetChannelsEnabled(float64(enabledCount))

	if enabledCount == 0 {
		slog.Debug("no notification channels enabled")
		return nil
	}

	slog.Info("dispatching run summary notification",
		slog.Int("enabled_channels", enabledCount),
		slog.Int("new_count", summary.NewCount),
		slog.Int("duplicate_count", summary.DuplicateCount))

	for _, ch := range s.channels {
		if ch.IsEnabled() {
			channel := ch
			s.wg.Add(1)
			go s.notifyChannel(channel, summary)
		}
	}

	return nil
}

// notifyChannel sends the summary to a single channel in a goroutine.
func (s *service) notifyChannel(channel Channel, summary *RunSummary) {
	defer s.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in notification channel",
				slog.String("channel", channel.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	// Acquire a worker slot with a timeout so a saturated pool sheds load
	// instead of piling up goroutines.
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(workerPoolTimeout):
		slog.Warn("notification dropped: worker pool full",
			slog.String("channel", channel.Name()))
		RecordDropped(channel.Name(), "pool_full")
		return
	}

	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()

	start := time.Now()
	RecordDispatch(channel.Name())

	err := channel.Send(ctx, summary)
	duration := time.Since(start)

	if err != nil {
		RecordFailure(channel.Name(), duration)
		slog.Warn("channel notification failed",
			slog.String("channel", channel.Name()),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return
	}

	RecordSuccess(channel.Name(), duration)
	slog.Info("channel notification sent",
		slog.String("channel", channel.Name()),
		slog.Duration("send_duration", duration))
}

// Shutdown implements Service.Shutdown.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("shutting down notification service")

	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("notification service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("notification service shutdown timeout")
		return ctx.Err()
	}
}
