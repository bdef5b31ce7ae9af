package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		denyPrivateIPs bool
		wantErr        error
	}{
		{"Valid public https", "https://example.com/article", false, nil},
		{"Valid public http", "http://example.com/article", false, nil},
		{"FTP scheme rejected", "ftp://example.com/file", false, ErrInvalidURL},
		{"Empty hostname", "https:///path", false, ErrInvalidURL},
		{"Unparseable", "://nope", false, ErrInvalidURL},
		{"Loopback blocked", "http://127.0.0.1/admin", true, ErrPrivateIP},
		{"Loopback allowed when check disabled", "http://127.0.0.1/admin", false, nil},
		{"Localhost blocked", "http://localhost/admin", true, ErrPrivateIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url, tt.denyPrivateIPs)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateURL(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultExcerptConfig(t *testing.T) {
	cfg := DefaultExcerptConfig()

	if cfg.Enabled {
		t.Error("Expected enrichment disabled by default")
	}
	if !cfg.DenyPrivateIPs {
		t.Error("Expected private IP blocking enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}

func TestExcerptConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExcerptConfig)
		valid  bool
	}{
		{"Defaults", func(c *ExcerptConfig) {}, true},
		{"Zero timeout", func(c *ExcerptConfig) { c.Timeout = 0 }, false},
		{"Excerpt too short", func(c *ExcerptConfig) { c.MaxExcerptChars = 10 }, false},
		{"Excerpt too long", func(c *ExcerptConfig) { c.MaxExcerptChars = 10000 }, false},
		{"Body size too small", func(c *ExcerptConfig) { c.MaxBodySize = 100 }, false},
		{"Too many redirects", func(c *ExcerptConfig) { c.MaxRedirects = 20 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExcerptConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadExcerptConfig(t *testing.T) {
	t.Run("Env overrides", func(t *testing.T) {
		t.Setenv("EXCERPT_FETCH_ENABLED", "true")
		t.Setenv("EXCERPT_FETCH_TIMEOUT", "5s")
		t.Setenv("EXCERPT_MAX_CHARS", "800")

		cfg := LoadExcerptConfig()

		if !cfg.Enabled {
			t.Error("Expected enrichment enabled")
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Expected timeout 5s, got %v", cfg.Timeout)
		}
		if cfg.MaxExcerptChars != 800 {
			t.Errorf("Expected max chars 800, got %d", cfg.MaxExcerptChars)
		}
	})

	t.Run("Invalid values fall back", func(t *testing.T) {
		t.Setenv("EXCERPT_MAX_CHARS", "999999")
		t.Setenv("EXCERPT_FETCH_TIMEOUT", "not a duration")

		cfg := LoadExcerptConfig()

		defaults := DefaultExcerptConfig()
		if cfg.MaxExcerptChars != defaults.MaxExcerptChars {
			t.Errorf("Expected default max chars, got %d", cfg.MaxExcerptChars)
		}
		if cfg.Timeout != defaults.Timeout {
			t.Errorf("Expected default timeout, got %v", cfg.Timeout)
		}
	})
}

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Visa Bulletin Update</title></head>
<body>
  <article>
    <h1>Visa Bulletin Update</h1>
    <p>The Department of State released the April visa bulletin today. Priority
    dates for employment-based categories advanced by roughly three weeks, the
    second consecutive month of forward movement after the winter retrogression.</p>
    <p>Practitioners expect filing volumes to rise accordingly through the spring,
    and applicants with current priority dates are encouraged to prepare their
    adjustment packages early.</p>
  </article>
</body>
</html>`

func testConfig() ExcerptConfig {
	cfg := DefaultExcerptConfig()
	cfg.Enabled = true
	// httptest serves on loopback
	cfg.DenyPrivateIPs = false
	return cfg
}

func TestExcerptFetcher_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	f := NewExcerptFetcher(testConfig())

	excerpt, err := f.Fetch(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(excerpt, "April visa bulletin") {
		t.Errorf("expected extracted article text, got: %q", excerpt)
	}
	if len([]rune(excerpt)) > 503 {
		t.Errorf("expected excerpt capped at 500 runes plus ellipsis, got %d", len([]rune(excerpt)))
	}
}

func TestExcerptFetcher_Fetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewExcerptFetcher(testConfig())

	if _, err := f.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestExcerptFetcher_Fetch_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>")
		for range 1000 {
			fmt.Fprint(w, strings.Repeat("x", 100))
		}
		fmt.Fprint(w, "</body></html>")
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024

	f := NewExcerptFetcher(cfg)

	_, err := f.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestExcerptFetcher_Fetch_PrivateIPBlocked(t *testing.T) {
	cfg := DefaultExcerptConfig()
	cfg.Enabled = true

	f := NewExcerptFetcher(cfg)

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:9/article")
	if !errors.Is(err, ErrPrivateIP) {
		t.Fatalf("expected ErrPrivateIP, got %v", err)
	}
}
