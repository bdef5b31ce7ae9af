package config

import (
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("validation failed")

func TestLoadEnvString(t *testing.T) {
	t.Run("unset returns default", func(t *testing.T) {
		if got := LoadEnvString("TEST_UNSET_STRING", "fallback"); got != "fallback" {
			t.Errorf("LoadEnvString() = %q, want %q", got, "fallback")
		}
	})

	t.Run("set returns value", func(t *testing.T) {
		t.Setenv("TEST_SET_STRING", "configured")
		if got := LoadEnvString("TEST_SET_STRING", "fallback"); got != "configured" {
			t.Errorf("LoadEnvString() = %q, want %q", got, "configured")
		}
	})
}

func TestLoadEnvWithFallback(t *testing.T) {
	failValidator := func(string) error { return errTest }

	t.Run("unset uses default without warning", func(t *testing.T) {
		result := LoadEnvWithFallback("TEST_UNSET_VALIDATED", "default", failValidator)
		if result.Value.(string) != "default" {
			t.Errorf("Value = %v, want default", result.Value)
		}
		if result.FallbackApplied {
			t.Error("FallbackApplied = true, want false for unset variable")
		}
	})

	t.Run("invalid value falls back with warning", func(t *testing.T) {
		t.Setenv("TEST_INVALID_VALIDATED", "bad")
		result := LoadEnvWithFallback("TEST_INVALID_VALIDATED", "default", failValidator)
		if result.Value.(string) != "default" {
			t.Errorf("Value = %v, want default", result.Value)
		}
		if !result.FallbackApplied {
			t.Error("FallbackApplied = false, want true")
		}
		if len(result.Warnings) != 1 {
			t.Errorf("Warnings = %v, want exactly one", result.Warnings)
		}
	})

	t.Run("valid value passes through", func(t *testing.T) {
		t.Setenv("TEST_VALID_VALIDATED", "good")
		result := LoadEnvWithFallback("TEST_VALID_VALIDATED", "default", func(string) error { return nil })
		if result.Value.(string) != "good" {
			t.Errorf("Value = %v, want good", result.Value)
		}
		if result.FallbackApplied {
			t.Error("FallbackApplied = true, want false")
		}
	})
}

func TestLoadEnvDuration(t *testing.T) {
	t.Run("parses valid duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "45s")
		result := LoadEnvDuration("TEST_DURATION", time.Minute, ValidatePositiveDuration)
		if result.Value.(time.Duration) != 45*time.Second {
			t.Errorf("Value = %v, want 45s", result.Value)
		}
	})

	t.Run("malformed duration falls back", func(t *testing.T) {
		t.Setenv("TEST_BAD_DURATION", "not-a-duration")
		result := LoadEnvDuration("TEST_BAD_DURATION", time.Minute, nil)
		if result.Value.(time.Duration) != time.Minute {
			t.Errorf("Value = %v, want default 1m", result.Value)
		}
		if !result.FallbackApplied {
			t.Error("FallbackApplied = false, want true")
		}
	})

	t.Run("validator rejection falls back", func(t *testing.T) {
		t.Setenv("TEST_NEGATIVE_DURATION", "-5s")
		result := LoadEnvDuration("TEST_NEGATIVE_DURATION", time.Minute, ValidatePositiveDuration)
		if result.Value.(time.Duration) != time.Minute {
			t.Errorf("Value = %v, want default 1m", result.Value)
		}
		if !result.FallbackApplied {
			t.Error("FallbackApplied = false, want true")
		}
	})
}

func TestLoadEnvInt(t *testing.T) {
	t.Run("parses valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		result := LoadEnvInt("TEST_INT", 7, nil)
		if result.Value.(int) != 42 {
			t.Errorf("Value = %v, want 42", result.Value)
		}
	})

	t.Run("malformed integer falls back", func(t *testing.T) {
		t.Setenv("TEST_BAD_INT", "forty-two")
		result := LoadEnvInt("TEST_BAD_INT", 7, nil)
		if result.Value.(int) != 7 {
			t.Errorf("Value = %v, want default 7", result.Value)
		}
		if !result.FallbackApplied {
			t.Error("FallbackApplied = false, want true")
		}
	})

	t.Run("out-of-range integer falls back", func(t *testing.T) {
		t.Setenv("TEST_RANGE_INT", "500")
		result := LoadEnvInt("TEST_RANGE_INT", 7, func(v int) error {
			return ValidateIntRange(v, 1, 100)
		})
		if result.Value.(int) != 7 {
			t.Errorf("Value = %v, want default 7", result.Value)
		}
	})
}

func TestLoadEnvBool(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		def      bool
		want     bool
		fallback bool
	}{
		{name: "true literal", raw: "true", def: false, want: true},
		{name: "numeric one", raw: "1", def: false, want: true},
		{name: "false literal", raw: "false", def: true, want: false},
		{name: "garbage falls back", raw: "yes", def: false, want: false, fallback: true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.raw)
			result := LoadEnvBool("TEST_BOOL", tt.def)
			if result.Value.(bool) != tt.want {
				t.Errorf("Value = %v, want %v", result.Value, tt.want)
			}
			if result.FallbackApplied != tt.fallback {
				t.Errorf("FallbackApplied = %v, want %v", result.FallbackApplied, tt.fallback)
			}
		})
	}
}
