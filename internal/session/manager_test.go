package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

func TestManagerCreateGetDelete(t *testing.T) {
	store, _ := newTestStore(t, 1)
	cfg := &config.Config{
		Session:      config.SessionConfig{SessionTTLMinutes: 1, HistoryMaxPairs: 1},
		SessionStore: config.SessionStoreConfig{URL: "", Enabled: true},
	}

	manager := NewManager(store, cfg, testLogger())
	info, err := manager.Create(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if info.ID == "" {
		t.Fatalf("expected session id")
	}
	if info.Email != "user@example.com" {
		t.Fatalf("unexpected email: %s", info.Email)
	}

	loaded, err := manager.Get(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if loaded.ID != info.ID || loaded.Email != "user@example.com" {
		t.Fatalf("unexpected session info")
	}

	if err := manager.Delete(context.Background(), info.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := store.GetSession(context.Background(), info.ID); err == nil {
		t.Fatalf("expected session not found")
	}

	meta := Meta{ID: "s1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateSession(context.Background(), meta); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if count := manager.Count(context.Background()); count != 1 {
		t.Fatalf("expected session count to be 1, got %d", count)
	}
}

func TestManagerEnforcesSessionLimit(t *testing.T) {
	store, _ := newTestStore(t, 1)
	cfg := &config.Config{
		Session: config.SessionConfig{SessionTTLMinutes: 1, MaxSessions: 1},
	}

	manager := NewManager(store, cfg, testLogger())
	if _, err := manager.Create(context.Background(), "first@example.com"); err != nil {
		t.Fatalf("create first session: %v", err)
	}

	_, err := manager.Create(context.Background(), "second@example.com")
	if !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
}
