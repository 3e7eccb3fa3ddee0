package history

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
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

func testProfile(occasion string) styling.Profile {
	return styling.Profile{
		Gender:          "Female",
		Age:             "26-35",
		Occasion:        occasion,
		Budget:          "Medium",
		PreferredColors: "navy",
		SkinTone:        styling.SkinToneMedium,
	}
}

func testRecommendation() styling.Recommendation {
	return styling.Recommendation{
		Outfit: styling.Outfit{
			Top:         "Silk blouse",
			Bottom:      "Tailored trousers",
			Shoes:       "Block heels",
			Accessories: "Gold pendant",
		},
		Hairstyle: "Low bun",
		ColorPalette: styling.ColorPalette{
			Primary:   "Navy",
			Secondary: "Cream",
			Accent:    "Gold",
		},
		Explanation: "Polished look for the office.",
		ShoppingKeywords: styling.ShoppingKeywords{
			styling.PlatformMyntra: {"women-blouses", "women-trousers"},
		},
	}
}

func TestRepositorySaveAndRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "a@example.com", testProfile("Business"), testRecommendation()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Save(ctx, "a@example.com", testProfile("Party"), testRecommendation()); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if err := repo.Save(ctx, "b@example.com", testProfile("Casual"), testRecommendation()); err != nil {
		t.Fatalf("other user save failed: %v", err)
	}

	records, err := repo.Recent(ctx, "a@example.com", 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("unexpected record count: %d", len(records))
	}
	if records[0].Occasion != "Party" || records[1].Occasion != "Business" {
		t.Fatalf("unexpected ordering: %+v", records)
	}
	if records[0].SkinTone != "Medium" || records[0].Gender != "Female" {
		t.Fatalf("unexpected profile fields: %+v", records[0])
	}
	if records[0].Date == "" {
		t.Fatalf("expected date to be set")
	}

	result := records[0].Result
	if result.Outfit.Top != "Silk blouse" {
		t.Fatalf("unexpected outfit: %+v", result.Outfit)
	}
	keywords := result.ShoppingKeywords[styling.PlatformMyntra]
	if len(keywords) != 2 || keywords[0] != "women-blouses" {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
}

func TestRepositoryRecentLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := repo.Save(ctx, "c@example.com", testProfile("Casual"), testRecommendation()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	records, err := repo.Recent(ctx, "c@example.com", 5)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("unexpected record count: %d", len(records))
	}

	// limit<=0 은 기본값으로 조회한다.
	records, err = repo.Recent(ctx, "c@example.com", 0)
	if err != nil {
		t.Fatalf("recent default failed: %v", err)
	}
	if len(records) != defaultLimit {
		t.Fatalf("unexpected default count: %d", len(records))
	}
}

func TestRepositoryRecentSkipsCorruptRows(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "d@example.com", testProfile("Formal"), testRecommendation()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	corrupt := Entry{Email: "d@example.com", Occasion: "Formal", Result: "{not json"}
	if err := repo.db.Create(&corrupt).Error; err != nil {
		t.Fatalf("insert corrupt row failed: %v", err)
	}

	records, err := repo.Recent(ctx, "d@example.com", 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected corrupt row skipped, got %d", len(records))
	}
}
