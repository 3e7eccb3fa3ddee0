package usage

import (
	"testing"
	"time"
)

func TestDailyUsageTotalTokens(t *testing.T) {
	row := DailyUsage{InputTokens: 120, OutputTokens: 45, ReasoningTokens: 30}
	if got := row.TotalTokens(); got != 165 {
		t.Fatalf("unexpected total tokens: %d", got)
	}
}

func TestTokenUsageDailyView(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	row := TokenUsage{
		ID:              7,
		UsageDate:       date,
		InputTokens:     10,
		OutputTokens:    20,
		ReasoningTokens: 5,
		RequestCount:    3,
		Version:         2,
	}

	view := row.daily()
	if !view.UsageDate.Equal(date) {
		t.Fatalf("unexpected date: %v", view.UsageDate)
	}
	if view.InputTokens != 10 || view.OutputTokens != 20 || view.ReasoningTokens != 5 || view.RequestCount != 3 {
		t.Fatalf("unexpected view: %+v", view)
	}
}
