package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newTestStore(t *testing.T, historyMaxPairs int) (*Store, *miniredis.Miniredis) {
	mini := miniredis.RunT(t)
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{
			URL:                "redis://" + mini.Addr(),
			Enabled:            true,
			DisableCache:       true,
			ConnectMaxAttempts: 1,
		},
		Session: config.SessionConfig{
			SessionTTLMinutes: 1,
			HistoryMaxPairs:   historyMaxPairs,
		},
	}
	store, err := NewStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		mini.Close()
	})
	return store, mini
}

func TestNewStoreDisabled(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false, Required: true},
	}
	if _, err := NewStore(cfg, testLogger()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewStoreFallsBackToMemoryWhenRedisDisabled(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false, Required: false},
		Session: config.SessionConfig{
			SessionTTLMinutes: 1,
			HistoryMaxPairs:   1,
		},
	}
	store, err := NewStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("expected memory store, got error: %v", err)
	}

	now := time.Now()
	meta := Meta{ID: "s1", Email: "user@example.com", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateSession(context.Background(), meta); err != nil {
		t.Fatalf("create session: %v", err)
	}

	loaded, err := store.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if loaded.ID != "s1" || loaded.Email != "user@example.com" {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	if err := store.AppendHistory(context.Background(), "s1", llm.HistoryEntry{Role: "user", Content: "one"}); err != nil {
		t.Fatalf("append history: %v", err)
	}
	history, err := store.GetHistory(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected history, got %d", len(history))
	}

	if err := store.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
}

func TestNewStoreFallsBackToMemoryWhenUnreachable(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{
			URL:                "redis://127.0.0.1:1",
			Enabled:            true,
			Required:           false,
			DisableCache:       true,
			ConnectMaxAttempts: 1,
		},
		Session: config.SessionConfig{SessionTTLMinutes: 1, HistoryMaxPairs: 1},
	}

	store, err := NewStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("expected memory fallback, got error: %v", err)
	}
	if store.backend != storeBackendMemory {
		t.Fatalf("expected memory backend")
	}
	if !store.IsEnabled() {
		t.Fatalf("expected enabled store")
	}
}

func TestNewStoreUnreachableRequired(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{
			URL:                "redis://127.0.0.1:1",
			Enabled:            true,
			Required:           true,
			DisableCache:       true,
			ConnectMaxAttempts: 1,
		},
		Session: config.SessionConfig{SessionTTLMinutes: 1},
	}
	if _, err := NewStore(cfg, testLogger()); err == nil {
		t.Fatalf("expected error for required unreachable store")
	}
}

func TestNewStoreMiniredisRequiresDisableCache(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{
			URL:                "redis://" + mini.Addr(),
			Enabled:            true,
			Required:           true,
			DisableCache:       false,
			ConnectMaxAttempts: 1,
		},
		Session: config.SessionConfig{
			SessionTTLMinutes: 1,
			HistoryMaxPairs:   1,
		},
	}
	if _, err := NewStore(cfg, testLogger()); err == nil {
		t.Fatalf("expected error")
	} else if !errors.Is(err, valkey.ErrNoCache) {
		t.Fatalf("expected valkey.ErrNoCache, got: %v", err)
	}
}

func TestStoreCRUD(t *testing.T) {
	store, _ := newTestStore(t, 2)

	now := time.Now()
	meta := Meta{ID: "s1", Email: "user@example.com", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateSession(context.Background(), meta); err != nil {
		t.Fatalf("create session: %v", err)
	}

	loaded, err := store.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if loaded.ID != "s1" || loaded.Email != "user@example.com" {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	loaded.MessageCount = 2
	if err := store.UpdateSession(context.Background(), *loaded); err != nil {
		t.Fatalf("update session: %v", err)
	}

	if err := store.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := store.GetSession(context.Background(), "s1"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestStoreHistoryTrim(t *testing.T) {
	store, _ := newTestStore(t, 1)

	if err := store.CreateSession(context.Background(), Meta{ID: "s1", CreatedAt: time.Now(), UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	entries := []llm.HistoryEntry{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
	}
	if err := store.AppendHistory(context.Background(), "s1", entries...); err != nil {
		t.Fatalf("append history: %v", err)
	}

	history, err := store.GetHistory(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected trimmed history, got %d", len(history))
	}
	if history[0].Content != "two" || history[1].Content != "three" {
		t.Fatalf("unexpected history order")
	}
}

func testLastStyling() styling.LastStyling {
	return styling.LastStyling{
		UserData: styling.Profile{
			Gender:          "Female",
			Age:             "26-35",
			Occasion:        "Party",
			Budget:          "5000-10000",
			PreferredColors: "emerald, gold",
			SkinTone:        styling.SkinToneFair,
		},
		Result: styling.Recommendation{
			Outfit: styling.Outfit{
				Top:         "Sequined wrap top",
				Bottom:      "High-waisted satin skirt",
				Shoes:       "Strappy heels",
				Accessories: "Statement earrings",
			},
			Hairstyle:    "Voluminous curls",
			ColorPalette: styling.ColorPalette{Primary: "Emerald Green", Secondary: "Black", Accent: "Gold"},
			Explanation:  "Jewel tones flatter fair skin under party lighting.",
			ShoppingKeywords: styling.ShoppingKeywords{
				styling.PlatformMyntra: []string{"women-party-tops", "women-sequin-tops", "women-satin-skirts", "women-heels", "women-earrings"},
			},
		},
	}
}

func TestStoreLastStylingRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 1)

	if _, err := store.GetLastStyling(context.Background(), "s1"); !errors.Is(err, ErrNoLastStyling) {
		t.Fatalf("expected ErrNoLastStyling, got %v", err)
	}

	last := testLastStyling()
	if err := store.SetLastStyling(context.Background(), "s1", last); err != nil {
		t.Fatalf("set last styling: %v", err)
	}

	loaded, err := store.GetLastStyling(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get last styling: %v", err)
	}
	if loaded.UserData.Occasion != "Party" || loaded.UserData.SkinTone != styling.SkinToneFair {
		t.Fatalf("unexpected user data: %+v", loaded.UserData)
	}
	if loaded.Result.Outfit.Top != "Sequined wrap top" {
		t.Fatalf("unexpected outfit: %+v", loaded.Result.Outfit)
	}
	if len(loaded.Result.ShoppingKeywords[styling.PlatformMyntra]) != 5 {
		t.Fatalf("unexpected keywords: %+v", loaded.Result.ShoppingKeywords)
	}

	// 세션 삭제 시 스타일링 결과도 함께 제거된다.
	if err := store.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.GetLastStyling(context.Background(), "s1"); !errors.Is(err, ErrNoLastStyling) {
		t.Fatalf("expected ErrNoLastStyling after delete, got %v", err)
	}
}

func TestStoreLastStylingMemoryBackend(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false, Required: false},
		Session:      config.SessionConfig{SessionTTLMinutes: 1},
	}
	store, err := NewStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	last := testLastStyling()
	if err := store.SetLastStyling(context.Background(), "s1", last); err != nil {
		t.Fatalf("set last styling: %v", err)
	}
	loaded, err := store.GetLastStyling(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get last styling: %v", err)
	}
	if loaded.Result.ColorPalette.Primary != "Emerald Green" {
		t.Fatalf("unexpected palette: %+v", loaded.Result.ColorPalette)
	}
}

func TestStoreSessionCountAndPing(t *testing.T) {
	store, _ := newTestStore(t, 1)

	if err := store.CreateSession(context.Background(), Meta{ID: "s1", CreatedAt: time.Now(), UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.CreateSession(context.Background(), Meta{ID: "s2", CreatedAt: time.Now(), UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	count, err := store.SessionCount(context.Background())
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 sessions, got %d", count)
	}

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
