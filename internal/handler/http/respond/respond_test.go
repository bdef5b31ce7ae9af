package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"advisory-news/internal/handler/http/respond"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body["error"]
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.JSON(rec, http.StatusCreated, map[string]int{"count": 3})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["count"] != 3 {
		t.Errorf("count = %d, want 3", body["count"])
	}
}

func TestJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.JSON(rec, http.StatusNoContent, nil)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestSafeError_ValidationMessagePassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.SafeError(rec, http.StatusBadRequest, errors.New("category is invalid"))

	if got := decodeError(t, rec); got != "category is invalid" {
		t.Errorf("error = %q, want the validation message", got)
	}
}

func TestSafeError_InternalMessageMasked(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.SafeError(rec, http.StatusInternalServerError,
		errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if got := decodeError(t, rec); got != "internal server error" {
		t.Errorf("error = %q, want generic message", got)
	}
}

func TestSafeError_ServerCodeAlwaysMasked(t *testing.T) {
	rec := httptest.NewRecorder()

	// "invalid" would normally pass, but 5xx always masks
	respond.SafeError(rec, http.StatusInternalServerError, errors.New("invalid connection state"))

	if got := decodeError(t, rec); got != "internal server error" {
		t.Errorf("error = %q, want generic message for 5xx", got)
	}
}

func TestSafeError_Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.SafeError(rec, http.StatusUnauthorized, errors.New("unauthorized: missing bearer token"))

	if got := decodeError(t, rec); got != "unauthorized: missing bearer token" {
		t.Errorf("error = %q, want the auth message", got)
	}
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil error", nil, ""},
		{
			"Anthropic key masked",
			errors.New("auth failed with sk-ant-api03-abc123XYZ"),
			"auth failed with sk-ant-****",
		},
		{
			"OpenAI key masked",
			errors.New("auth failed with sk-abcdef1234567890"),
			"auth failed with sk-****",
		},
		{
			"DSN password masked",
			errors.New("connect postgres://app:hunter2@db:5432/news failed"),
			"connect postgres://app:****@db:5432/news failed",
		},
		{
			"Plain message untouched",
			errors.New("feed parse error"),
			"feed parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := respond.SanitizeError(tt.err); got != tt.want {
				t.Errorf("SanitizeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
