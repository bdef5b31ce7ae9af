package worker

import (
	"fmt"
	"log/slog"
	"time"

	"advisory-news/internal/pkg/config"
)

// WorkerConfig holds the scheduler settings for the aggregation worker.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the aggregation job.
	CronSchedule string

	// Timezone in which the cron schedule is evaluated.
	Timezone string

	// NotifyMaxConcurrent bounds concurrent notification deliveries.
	NotifyMaxConcurrent int

	// RunTimeout bounds a single aggregation run end to end.
	RunTimeout time.Duration

	// FetchDelay is the pause between consecutive feed fetches.
	// Zero disables pacing.
	FetchDelay time.Duration

	// HealthPort is the port for the worker health endpoints.
	HealthPort int
}

// DefaultConfig returns the worker configuration defaults.
func DefaultConfig() *WorkerConfig {
	return &WorkerConfig{
		CronSchedule:        "0 6 * * *",
		Timezone:            "America/New_York",
		NotifyMaxConcurrent: 10,
		RunTimeout:          30 * time.Minute,
		FetchDelay:          time.Second,
		HealthPort:          9091,
	}
}

// Validate checks the configuration and returns all violations at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateNonNegativeDuration(c.FetchDelay); err != nil {
		errs = append(errs, fmt.Errorf("fetch delay: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid worker config: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv builds the worker configuration from environment
// variables. Invalid values fall back to defaults with a warning so a
// bad deploy never prevents the worker from starting.
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	recordResult(logger, metrics, "cron_schedule", result, &fallbackApplied)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	recordResult(logger, metrics, "timezone", result, &fallbackApplied)

	result = config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.NotifyMaxConcurrent = result.Value.(int)
	recordResult(logger, metrics, "notify_max_concurrent", result, &fallbackApplied)

	result = config.LoadEnvDuration("AGGREGATE_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = result.Value.(time.Duration)
	recordResult(logger, metrics, "run_timeout", result, &fallbackApplied)

	result = config.LoadEnvDuration("AGGREGATE_FETCH_DELAY", cfg.FetchDelay, config.ValidateNonNegativeDuration)
	cfg.FetchDelay = result.Value.(time.Duration)
	recordResult(logger, metrics, "fetch_delay", result, &fallbackApplied)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	recordResult(logger, metrics, "health_port", result, &fallbackApplied)

	if metrics != nil {
		metrics.SetFallbackActive(fallbackApplied)
		metrics.RecordLoadTimestamp()
	}

	return cfg
}

func recordResult(logger *slog.Logger, metrics *config.ConfigMetrics, field string, result config.ConfigLoadResult, fallbackApplied *bool) {
	for _, warning := range result.Warnings {
		logger.Warn("worker config fallback", "field", field, "warning", warning)
	}
	if result.FallbackApplied {
		*fallbackApplied = true
		if metrics != nil {
			metrics.RecordFallback(field)
		}
	}
}
