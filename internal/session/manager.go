package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

// ErrTooManySessions 는 동시 세션 한도 초과 오류다.
var ErrTooManySessions = errors.New("session limit reached")

// Manager 는 로그인 세션의 생성과 폐기를 담당한다.
// 저장 자체는 Storage 에 맡기고 한도 검사와 ID 발급만 얹는다.
type Manager struct {
	store  Storage
	cfg    *config.Config
	logger *slog.Logger
}

// NewManager 세션 관리자 생성
func NewManager(store Storage, cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Info: 세션 정보 응답입니다.
type Info struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

func sessionInfo(meta Meta) *Info {
	return &Info{
		ID:           meta.ID,
		Email:        meta.Email,
		CreatedAt:    meta.CreatedAt,
		UpdatedAt:    meta.UpdatedAt,
		MessageCount: meta.MessageCount,
	}
}

// Create 로그인 세션 생성
// MaxSessions 를 넘으면 새 세션을 거부한다.
func (m *Manager) Create(ctx context.Context, email string) (*Info, error) {
	if err := m.checkSessionLimit(ctx); err != nil {
		return nil, err
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	meta := Meta{
		ID:        sessionID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.CreateSession(ctx, meta); err != nil {
		return nil, err
	}

	m.logger.Debug("session_created", "session_id", sessionID, "email", email)
	return sessionInfo(meta), nil
}

// checkSessionLimit 은 세션 수가 한도에 닿았는지 확인한다.
// 카운트 조회가 실패하면 생성을 막지 않는다.
func (m *Manager) checkSessionLimit(ctx context.Context) error {
	maxSessions := m.cfg.Session.MaxSessions
	if maxSessions <= 0 {
		return nil
	}
	count, err := m.store.SessionCount(ctx)
	if err == nil && count >= maxSessions {
		return ErrTooManySessions
	}
	return nil
}

// Get 세션 정보 조회
func (m *Manager) Get(ctx context.Context, sessionID string) (*Info, error) {
	meta, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(*meta), nil
}

// Delete 세션 삭제 (로그아웃)
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	m.logger.Debug("session_deleted", "session_id", sessionID)
	return nil
}

// Count 현재 세션 수
func (m *Manager) Count(ctx context.Context) int {
	count, err := m.store.SessionCount(ctx)
	if err != nil {
		return 0
	}
	return count
}

// newSessionID 는 128비트 랜덤 ID를 hex 문자열로 발급한다.
func newSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
