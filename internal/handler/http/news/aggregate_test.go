package news_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"advisory-news/internal/handler/http/news"
	"advisory-news/internal/usecase/aggregate"
)

type stubAggregator struct {
	stats *aggregate.RunStats
	err   error
	runs  int
}

func (s *stubAggregator) Run(_ context.Context) (*aggregate.RunStats, error) {
	s.runs++
	return s.stats, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAggregateHandler_Success(t *testing.T) {
	svc := &stubAggregator{stats: &aggregate.RunStats{
		Sources:        6,
		NewCount:       4,
		DuplicateCount: 2,
	}}
	handler := news.AggregateHandler{Svc: svc, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/news/aggregate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.runs != 1 {
		t.Errorf("expected one run, got %d", svc.runs)
	}

	var resp news.AggregateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Stats.NewCount != 4 {
		t.Errorf("expected newCount 4, got %d", resp.Stats.NewCount)
	}
	if resp.Stats.DuplicateCount != 2 {
		t.Errorf("expected duplicateCount 2, got %d", resp.Stats.DuplicateCount)
	}
	if !strings.Contains(resp.Message, "6 sources") {
		t.Errorf("expected source count in message, got %q", resp.Message)
	}
}

func TestAggregateHandler_ResponseFieldNames(t *testing.T) {
	svc := &stubAggregator{stats: &aggregate.RunStats{NewCount: 1, DuplicateCount: 3}}
	handler := news.AggregateHandler{Svc: svc, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/news/aggregate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, key := range []string{"success", "message", "stats"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected top-level key %q", key)
		}
	}

	var stats map[string]json.RawMessage
	if err := json.Unmarshal(raw["stats"], &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	for _, key := range []string{"newCount", "duplicateCount"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("expected stats key %q", key)
		}
	}
}

func TestAggregateHandler_RunError(t *testing.T) {
	svc := &stubAggregator{err: errors.New("postgres://user:hunter2@db/news unreachable")}
	handler := news.AggregateHandler{Svc: svc, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/news/aggregate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Errorf("expected masked error, got %q", resp["error"])
	}
	if strings.Contains(rec.Body.String(), "hunter2") {
		t.Error("credentials leaked into response body")
	}
}
