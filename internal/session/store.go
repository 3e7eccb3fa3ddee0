package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/llm"
)

var (
	// ErrSessionNotFound 는 세션 미존재 오류다.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreDisabled 는 저장소 비활성 오류다.
	ErrStoreDisabled = errors.New("session store disabled")
	// ErrNoLastStyling 는 세션에 스타일링 결과가 없을 때 반환된다.
	ErrNoLastStyling = errors.New("no styling result in session")
)

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

// Meta 는 로그인 세션 메타데이터다.
type Meta struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Store 는 세션 저장소다. 기본 백엔드는 Valkey 이고,
// 연결이 불가능하면 (Required 가 아닌 한) 메모리 백엔드로 내려간다.
type Store struct {
	client  valkey.Client
	cfg     *config.Config
	logger  *slog.Logger
	enabled bool
	backend storeBackend

	// 메모리 백엔드 상태. 종류별 TTL 맵은 Valkey 의 키별 만료를 흉내낸다.
	mu            sync.RWMutex
	meta          map[string]Meta
	history       map[string][]llm.HistoryEntry
	stylingBlob   map[string][]byte
	metaExpiry    map[string]time.Time
	historyExpiry map[string]time.Time
	stylingExpiry map[string]time.Time
}

// NewStore 는 세션 저장소를 생성한다.
func NewStore(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if !cfg.SessionStore.Enabled {
		if cfg.SessionStore.Required {
			return nil, errors.New("session store required but disabled")
		}
		return newMemoryStore(cfg, logger), nil
	}

	client, err := connectValkey(cfg, logger)
	if err != nil {
		if cfg.SessionStore.Required {
			return nil, err
		}
		if logger != nil {
			logger.Warn("session_store_memory_fallback", "err", err)
		}
		return newMemoryStore(cfg, logger), nil
	}

	return &Store{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		enabled: true,
		backend: storeBackendValkey,
	}, nil
}

func newMemoryStore(cfg *config.Config, logger *slog.Logger) *Store {
	return &Store{
		cfg:           cfg,
		logger:        logger,
		enabled:       true,
		backend:       storeBackendMemory,
		meta:          make(map[string]Meta),
		history:       make(map[string][]llm.HistoryEntry),
		stylingBlob:   make(map[string][]byte),
		metaExpiry:    make(map[string]time.Time),
		historyExpiry: make(map[string]time.Time),
		stylingExpiry: make(map[string]time.Time),
	}
}

// IsEnabled 는 저장소 활성화 여부를 반환한다.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// BackendName 은 사용 중인 백엔드 이름을 반환한다.
func (s *Store) BackendName() string {
	if s == nil || s.backend == storeBackendMemory {
		return "memory"
	}
	return "valkey"
}

// Close 는 Valkey 연결을 종료한다.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

// 세션 하나는 meta/history/styling 세 키로 저장된다.
func (s *Store) metaKey(sessionID string) string {
	return fmt.Sprintf("session:%s:meta", sessionID)
}

func (s *Store) historyKey(sessionID string) string {
	return fmt.Sprintf("session:%s:history", sessionID)
}

func (s *Store) stylingKey(sessionID string) string {
	return fmt.Sprintf("session:%s:styling", sessionID)
}

func (s *Store) ttl() time.Duration {
	return time.Duration(s.cfg.Session.SessionTTLMinutes) * time.Minute
}

// CreateSession 은 세션 메타데이터를 TTL 과 함께 저장한다.
func (s *Store) CreateSession(ctx context.Context, meta Meta) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.createSessionMemory(meta)
	}
	return s.createSessionValkey(ctx, meta)
}

// GetSession 은 세션 메타데이터를 조회한다. 없으면 ErrSessionNotFound 를 돌려준다.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Meta, error) {
	if !s.enabled {
		return nil, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.getSessionMemory(sessionID)
	}
	return s.getSessionValkey(ctx, sessionID)
}

// UpdateSession 은 메타데이터를 덮어쓰고 UpdatedAt 과 TTL 을 갱신한다.
func (s *Store) UpdateSession(ctx context.Context, meta Meta) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.updateSessionMemory(meta)
	}
	return s.updateSessionValkey(ctx, meta)
}

// DeleteSession 은 세션의 키 세 개를 모두 지운다.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.deleteSessionMemory(sessionID)
	}
	return s.deleteSessionValkey(ctx, sessionID)
}

// GetHistory 는 세션의 채팅 히스토리를 돌려준다.
func (s *Store) GetHistory(ctx context.Context, sessionID string) ([]llm.HistoryEntry, error) {
	if !s.enabled {
		return nil, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.getHistoryMemory(sessionID), nil
	}
	return s.getHistoryValkey(ctx, sessionID)
}

// AppendHistory 는 히스토리 끝에 엔트리를 붙이고 설정된 쌍 수를 넘는 오래된 엔트리를 버린다.
func (s *Store) AppendHistory(ctx context.Context, sessionID string, entries ...llm.HistoryEntry) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if len(entries) == 0 {
		return nil
	}
	if s.backend == storeBackendMemory {
		return s.appendHistoryMemory(sessionID, entries...)
	}
	return s.appendHistoryValkey(ctx, sessionID, entries...)
}

// SetLastStyling 은 마지막 스타일링 결과를 zstd 압축해 저장한다.
func (s *Store) SetLastStyling(ctx context.Context, sessionID string, last styling.LastStyling) error {
	if !s.enabled {
		return ErrStoreDisabled
	}

	compressed, err := encodeLastStyling(last)
	if err != nil {
		return err
	}
	if s.backend == storeBackendMemory {
		return s.setLastStylingMemory(sessionID, compressed)
	}
	return s.setLastStylingValkey(ctx, sessionID, compressed)
}

// GetLastStyling 은 마지막 스타일링 결과를 돌려준다. 없으면 ErrNoLastStyling 을 돌려준다.
func (s *Store) GetLastStyling(ctx context.Context, sessionID string) (*styling.LastStyling, error) {
	if !s.enabled {
		return nil, ErrStoreDisabled
	}

	var compressed []byte
	if s.backend == storeBackendMemory {
		data, ok := s.getLastStylingMemory(sessionID)
		if !ok {
			return nil, ErrNoLastStyling
		}
		compressed = data
	} else {
		data, err := s.getLastStylingValkey(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		compressed = data
	}

	return decodeLastStyling(compressed)
}

// SessionCount 는 현재 세션 수를 돌려준다. Valkey 백엔드에서는 SCAN 기반 근사치다.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	if !s.enabled {
		return 0, nil
	}
	if s.backend == storeBackendMemory {
		return s.sessionCountMemory(), nil
	}
	return s.sessionCountValkey(ctx)
}

// Ping 은 백엔드 연결을 확인한다. 메모리 백엔드는 항상 성공한다.
func (s *Store) Ping(ctx context.Context) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return nil
	}
	return s.pingValkey(ctx)
}

// encodeLastStyling 은 스타일링 결과를 JSON 직렬화 후 zstd 로 압축한다.
func encodeLastStyling(last styling.LastStyling) ([]byte, error) {
	data, err := json.Marshal(last)
	if err != nil {
		return nil, fmt.Errorf("marshal styling result: %w", err)
	}
	compressed, err := sessionCodec.compress(data)
	if err != nil {
		return nil, fmt.Errorf("compress styling result: %w", err)
	}
	return compressed, nil
}

func decodeLastStyling(compressed []byte) (*styling.LastStyling, error) {
	data, err := sessionCodec.decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress styling result: %w", err)
	}

	var last styling.LastStyling
	if err := json.Unmarshal(data, &last); err != nil {
		return nil, fmt.Errorf("unmarshal styling result: %w", err)
	}
	return &last, nil
}
