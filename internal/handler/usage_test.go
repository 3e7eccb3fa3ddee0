package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/usage"
)

type stubUsageStore struct {
	recent     []usage.DailyUsage
	recentDays int
}

func (s *stubUsageStore) RecordUsage(context.Context, int64, int64, int64, int64, time.Time) error {
	return nil
}

func (s *stubUsageStore) GetDailyUsage(context.Context, time.Time) (*usage.DailyUsage, error) {
	if len(s.recent) == 0 {
		return nil, nil
	}
	return &s.recent[0], nil
}

func (s *stubUsageStore) GetRecentUsage(_ context.Context, days int) ([]usage.DailyUsage, error) {
	s.recentDays = days
	return s.recent, nil
}

func (s *stubUsageStore) GetTotalUsage(context.Context, int) (usage.DailyUsage, error) {
	var total usage.DailyUsage
	for _, row := range s.recent {
		total.InputTokens += row.InputTokens
		total.OutputTokens += row.OutputTokens
	}
	return total, nil
}

func newUsageTestHandler(store usage.Store) *UsageHandler {
	cfg := &config.Config{Gemini: config.GeminiConfig{DefaultModel: "gemini-3-test"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUsageHandler(cfg, store, logger)
}

func TestUsageRecentRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &stubUsageStore{recent: []usage.DailyUsage{
		{UsageDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), InputTokens: 10, OutputTokens: 4, RequestCount: 2},
		{UsageDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), InputTokens: 5, OutputTokens: 1, ReasoningTokens: 3, RequestCount: 1},
	}}

	router := gin.New()
	newUsageTestHandler(store).RegisterRoutes(router, func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/api/usage/recent?days=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if store.recentDays != 2 {
		t.Fatalf("expected days=2 forwarded, got %d", store.recentDays)
	}

	var body UsageListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Usages) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(body.Usages))
	}
	if body.TotalInputTokens != 15 || body.TotalOutputTokens != 5 || body.TotalRequestCount != 3 {
		t.Fatalf("unexpected totals: %+v", body)
	}
	if body.Usages[0].UsageDate != "2025-03-01" {
		t.Fatalf("unexpected date format: %s", body.Usages[0].UsageDate)
	}
	if body.Model != "gemini-3-test" {
		t.Fatalf("unexpected model: %s", body.Model)
	}
}

func TestParseDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?days=3", nil)

	days, ok := parseDays(c, 7)
	if !ok || days != 3 {
		t.Fatalf("unexpected days: %d", days)
	}
}

func TestParseDaysDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	days, ok := parseDays(c, 30)
	if !ok || days != 30 {
		t.Fatalf("expected default 30, got %d", days)
	}
}

func TestParseDaysInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, raw := range []string{"0", "-1", "abc"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?days="+raw, nil)

		if _, ok := parseDays(c, 7); ok {
			t.Fatalf("expected parseDays to reject %q", raw)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", raw, w.Code)
		}
	}
}

func TestBuildDailyResponseEmpty(t *testing.T) {
	handler := newUsageTestHandler(&stubUsageStore{})

	resp := handler.buildDailyResponse(nil)
	if resp.TotalTokens != 0 || resp.RequestCount != 0 {
		t.Fatalf("expected zero counts: %+v", resp)
	}
	if resp.Model != "gemini-3-test" {
		t.Fatalf("unexpected model: %s", resp.Model)
	}
	if resp.UsageDate != time.Now().Format("2006-01-02") {
		t.Fatalf("expected today, got %s", resp.UsageDate)
	}
}

func TestBuildDailyResponse(t *testing.T) {
	handler := newUsageTestHandler(&stubUsageStore{})

	resp := handler.buildDailyResponse(&usage.DailyUsage{
		UsageDate:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		InputTokens:     1,
		OutputTokens:    2,
		ReasoningTokens: 1,
		RequestCount:    3,
	})
	if resp.UsageDate != "2024-01-02" {
		t.Fatalf("unexpected date: %s", resp.UsageDate)
	}
	if resp.TotalTokens != 3 || resp.RequestCount != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
