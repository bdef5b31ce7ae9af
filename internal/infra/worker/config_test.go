package worker

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CronSchedule != "0 6 * * *" {
		t.Errorf("Expected CronSchedule '0 6 * * *', got '%s'", cfg.CronSchedule)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("Expected Timezone 'America/New_York', got '%s'", cfg.Timezone)
	}
	if cfg.NotifyMaxConcurrent != 10 {
		t.Errorf("Expected NotifyMaxConcurrent 10, got %d", cfg.NotifyMaxConcurrent)
	}
	if cfg.RunTimeout != 30*time.Minute {
		t.Errorf("Expected RunTimeout 30m, got %v", cfg.RunTimeout)
	}
	if cfg.FetchDelay != time.Second {
		t.Errorf("Expected FetchDelay 1s, got %v", cfg.FetchDelay)
	}
	if cfg.HealthPort != 9091 {
		t.Errorf("Expected HealthPort 9091, got %d", cfg.HealthPort)
	}
}

func TestDefaultConfig_Immutability(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg2 := DefaultConfig()

	cfg1.CronSchedule = "30 5 * * *"
	cfg1.NotifyMaxConcurrent = 20

	if cfg2.CronSchedule != "0 6 * * *" {
		t.Error("DefaultConfig returned a shared instance instead of a new one")
	}
	if cfg2.NotifyMaxConcurrent != 10 {
		t.Error("DefaultConfig returned a shared instance instead of a new one")
	}
}

func TestWorkerConfig_Validate_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got error: %v", err)
	}
}

func TestWorkerConfig_Validate_InvalidCronSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CronSchedule = "invalid cron"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for invalid cron schedule")
	}
}

func TestWorkerConfig_Validate_InvalidTimezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Invalid/Timezone"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for invalid timezone")
	}
}

func TestWorkerConfig_Validate_NotifyMaxConcurrentBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value int
		valid bool
	}{
		{"Min valid (1)", 1, true},
		{"Max valid (100)", 100, true},
		{"Below min (0)", 0, false},
		{"Negative", -1, false},
		{"Above max (101)", 101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.NotifyMaxConcurrent = tt.value

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for value %d", tt.value)
			}
		})
	}
}

func TestWorkerConfig_Validate_RunTimeoutBoundary(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		valid    bool
	}{
		{"Min valid (1m)", time.Minute, true},
		{"Typical (30m)", 30 * time.Minute, true},
		{"Max valid (4h)", 4 * time.Hour, true},
		{"Zero", 0, false},
		{"Below min", 30 * time.Second, false},
		{"Above max", 5 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.RunTimeout = tt.duration

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid timeout %v, got error: %v", tt.duration, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for timeout %v", tt.duration)
			}
		})
	}
}

func TestWorkerConfig_Validate_FetchDelay(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		valid    bool
	}{
		{"Zero disables pacing", 0, true},
		{"One second", time.Second, true},
		{"Negative", -time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FetchDelay = tt.duration

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid delay %v, got error: %v", tt.duration, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for delay %v", tt.duration)
			}
		})
	}
}

func TestWorkerConfig_Validate_HealthPortBoundary(t *testing.T) {
	tests := []struct {
		name  string
		port  int
		valid bool
	}{
		{"Min valid (1024)", 1024, true},
		{"Max valid (65535)", 65535, true},
		{"Below min (1023)", 1023, false},
		{"Above max (65536)", 65536, false},
		{"Zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HealthPort = tt.port

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid port %d, got error: %v", tt.port, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for port %d", tt.port)
			}
		})
	}
}

func TestWorkerConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := WorkerConfig{
		CronSchedule:        "invalid",
		Timezone:            "Invalid/Zone",
		NotifyMaxConcurrent: 0,
		RunTimeout:          0,
		FetchDelay:          -time.Second,
		HealthPort:          100,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation errors for multiple invalid fields")
	}
	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}
}

// globalTestMetrics is a shared metrics instance for tests to avoid
// duplicate Prometheus registration errors.
var globalTestMetrics = NewWorkerMetrics()

func TestLoadConfigFromEnv_AllEnvVarsValid(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "0 */6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "20")
	t.Setenv("AGGREGATE_TIMEOUT", "1h")
	t.Setenv("AGGREGATE_FETCH_DELAY", "2s")
	t.Setenv("WORKER_HEALTH_PORT", "8080")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := LoadConfigFromEnv(logger, globalTestMetrics.ConfigMetrics)

	if cfg.CronSchedule != "0 */6 * * *" {
		t.Errorf("Expected CronSchedule '0 */6 * * *', got '%s'", cfg.CronSchedule)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected Timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if cfg.NotifyMaxConcurrent != 20 {
		t.Errorf("Expected NotifyMaxConcurrent 20, got %d", cfg.NotifyMaxConcurrent)
	}
	if cfg.RunTimeout != time.Hour {
		t.Errorf("Expected RunTimeout 1h, got %v", cfg.RunTimeout)
	}
	if cfg.FetchDelay != 2*time.Second {
		t.Errorf("Expected FetchDelay 2s, got %v", cfg.FetchDelay)
	}
	if cfg.HealthPort != 8080 {
		t.Errorf("Expected HealthPort 8080, got %d", cfg.HealthPort)
	}

	if strings.Contains(buf.String(), "worker config fallback") {
		t.Errorf("Expected no fallback warnings, got: %s", buf.String())
	}
}

func TestLoadConfigFromEnv_MissingEnvVars(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "")
	t.Setenv("WORKER_TIMEZONE", "")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "")
	t.Setenv("AGGREGATE_TIMEOUT", "")
	t.Setenv("AGGREGATE_FETCH_DELAY", "")
	t.Setenv("WORKER_HEALTH_PORT", "")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := LoadConfigFromEnv(logger, globalTestMetrics.ConfigMetrics)

	defaults := DefaultConfig()
	if cfg.CronSchedule != defaults.CronSchedule {
		t.Errorf("Expected default CronSchedule, got '%s'", cfg.CronSchedule)
	}
	if cfg.Timezone != defaults.Timezone {
		t.Errorf("Expected default Timezone, got '%s'", cfg.Timezone)
	}
	if cfg.NotifyMaxConcurrent != defaults.NotifyMaxConcurrent {
		t.Errorf("Expected default NotifyMaxConcurrent, got %d", cfg.NotifyMaxConcurrent)
	}
	if cfg.RunTimeout != defaults.RunTimeout {
		t.Errorf("Expected default RunTimeout, got %v", cfg.RunTimeout)
	}
	if cfg.FetchDelay != defaults.FetchDelay {
		t.Errorf("Expected default FetchDelay, got %v", cfg.FetchDelay)
	}
	if cfg.HealthPort != defaults.HealthPort {
		t.Errorf("Expected default HealthPort, got %d", cfg.HealthPort)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		value  string
	}{
		{"Invalid cron", "CRON_SCHEDULE", "not a schedule"},
		{"Invalid timezone", "WORKER_TIMEZONE", "Invalid/Zone"},
		{"Concurrency too high", "NOTIFY_MAX_CONCURRENT", "500"},
		{"Non-numeric concurrency", "NOTIFY_MAX_CONCURRENT", "abc"},
		{"Timeout too short", "AGGREGATE_TIMEOUT", "5s"},
		{"Negative fetch delay", "AGGREGATE_FETCH_DELAY", "-1s"},
		{"Port too low", "WORKER_HEALTH_PORT", "80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.value)

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			cfg := LoadConfigFromEnv(logger, globalTestMetrics.ConfigMetrics)

			if err := cfg.Validate(); err != nil {
				t.Errorf("Fallback config should always validate, got: %v", err)
			}
			if !strings.Contains(buf.String(), "worker config fallback") {
				t.Error("Expected fallback warning in logs")
			}
		})
	}
}

func TestLoadConfigFromEnv_NilMetrics(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "bad")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := LoadConfigFromEnv(logger, nil)

	if cfg.CronSchedule != DefaultConfig().CronSchedule {
		t.Errorf("Expected default CronSchedule, got '%s'", cfg.CronSchedule)
	}
}
