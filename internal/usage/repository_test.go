package usage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := NewRepository(db, testLogger())
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return repo
}

func TestRepositoryAccumulatesDailyUsage(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.RecordUsage(ctx, 10, 20, 5, 1, time.Time{}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := repo.RecordUsage(ctx, 10, 20, 5, 1, time.Time{}); err != nil {
		t.Fatalf("second record failed: %v", err)
	}

	daily, err := repo.GetDailyUsage(ctx, time.Time{})
	if err != nil {
		t.Fatalf("get daily failed: %v", err)
	}
	if daily == nil {
		t.Fatalf("expected daily usage row")
	}
	if daily.InputTokens != 20 || daily.OutputTokens != 40 || daily.ReasoningTokens != 10 {
		t.Fatalf("unexpected token sums: %+v", daily)
	}
	if daily.RequestCount != 2 {
		t.Fatalf("unexpected request count: %d", daily.RequestCount)
	}
	if daily.TotalTokens() != 60 {
		t.Fatalf("unexpected total tokens: %d", daily.TotalTokens())
	}

	var row TokenUsage
	if err := repo.db.Where("usage_date = ?", todayDate()).First(&row).Error; err != nil {
		t.Fatalf("load row failed: %v", err)
	}
	if row.Version != 1 {
		t.Fatalf("expected version bump on upsert, got %d", row.Version)
	}
}

func TestRepositorySkipsEmptyUsage(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.RecordUsage(ctx, 0, 0, 0, 0, time.Time{}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	daily, err := repo.GetDailyUsage(ctx, time.Time{})
	if err != nil {
		t.Fatalf("get daily failed: %v", err)
	}
	if daily != nil {
		t.Fatalf("expected no row for empty usage, got %+v", daily)
	}
}

func TestRepositoryRecentAndTotal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	today := todayDate()
	if err := repo.RecordUsage(ctx, 100, 0, 0, 1, today); err != nil {
		t.Fatalf("record today failed: %v", err)
	}
	if err := repo.RecordUsage(ctx, 10, 0, 0, 1, today.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("record yesterday failed: %v", err)
	}
	if err := repo.RecordUsage(ctx, 1, 0, 0, 1, today.AddDate(0, 0, -40)); err != nil {
		t.Fatalf("record old failed: %v", err)
	}

	recent, err := repo.GetRecentUsage(ctx, 2)
	if err != nil {
		t.Fatalf("get recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("unexpected recent count: %d", len(recent))
	}
	if recent[0].InputTokens != 100 || recent[1].InputTokens != 10 {
		t.Fatalf("unexpected recent ordering: %+v", recent)
	}

	total, err := repo.GetTotalUsage(ctx, 30)
	if err != nil {
		t.Fatalf("get total failed: %v", err)
	}
	if total.InputTokens != 110 {
		t.Fatalf("expected 40-day-old row excluded, got %d", total.InputTokens)
	}
	if total.RequestCount != 2 {
		t.Fatalf("unexpected total request count: %d", total.RequestCount)
	}

	// days<=0 은 기본 30일로 조회한다.
	fallback, err := repo.GetTotalUsage(ctx, 0)
	if err != nil {
		t.Fatalf("get total default failed: %v", err)
	}
	if fallback.InputTokens != 110 {
		t.Fatalf("unexpected default-window total: %d", fallback.InputTokens)
	}
}

func TestRecorderWritesThrough(t *testing.T) {
	repo := newTestRepository(t)
	cfg := &config.Config{}

	recorder := NewRecorder(cfg, repo, testLogger())
	defer recorder.Close()

	recorder.Record(context.Background(), 3, 4, 1)
	recorder.Record(context.Background(), 0, 0, 0)

	daily, err := repo.GetDailyUsage(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("get daily failed: %v", err)
	}
	if daily == nil || daily.InputTokens != 3 || daily.OutputTokens != 4 {
		t.Fatalf("unexpected recorded usage: %+v", daily)
	}
	if daily.RequestCount != 1 {
		t.Fatalf("unexpected request count: %d", daily.RequestCount)
	}
}
