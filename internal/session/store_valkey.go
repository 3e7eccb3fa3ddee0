package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// connectValkey 는 설정된 횟수만큼 접속을 재시도한다.
func connectValkey(cfg *config.Config, logger *slog.Logger) (valkey.Client, error) {
	target, err := parseTarget(cfg.SessionStore.URL)
	if err != nil {
		return nil, fmt.Errorf("parse session store url: %w", err)
	}

	tlsConfig, err := target.tlsConfig()
	if err != nil {
		return nil, err
	}

	attempts := cfg.SessionStore.ConnectMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryDelay := time.Duration(cfg.SessionStore.ConnectRetrySeconds) * time.Second

	var client valkey.Client
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, lastErr = valkey.NewClient(valkey.ClientOption{
			TLSConfig:    tlsConfig,
			Username:     target.user,
			Password:     target.pass,
			InitAddress:  []string{target.addr},
			SelectDB:     target.db,
			DisableCache: cfg.SessionStore.DisableCache,
		})
		if lastErr == nil {
			return client, nil
		}
		// 캐시 미지원은 설정 오류라 재시도하지 않는다.
		if errors.Is(lastErr, valkey.ErrNoCache) {
			break
		}
		if attempt < attempts {
			if logger != nil {
				logger.Warn("session_store_connect_retry",
					"attempt", attempt,
					"max_attempts", attempts,
					"err", lastErr,
				)
			}
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("connect to valkey: %w", lastErr)
}

func (s *Store) createSessionValkey(ctx context.Context, meta Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session meta: %w", err)
	}

	cmd := s.client.B().Set().Key(s.metaKey(meta.ID)).Value(string(data)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) getSessionValkey(ctx context.Context, sessionID string) (*Meta, error) {
	cmd := s.client.B().Get().Key(s.metaKey(sessionID)).Build()
	result, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var meta Meta
	if err := json.Unmarshal([]byte(result), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal session meta: %w", err)
	}
	return &meta, nil
}

func (s *Store) updateSessionValkey(ctx context.Context, meta Meta) error {
	meta.UpdatedAt = time.Now()
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session meta: %w", err)
	}

	cmd := s.client.B().Set().Key(s.metaKey(meta.ID)).Value(string(data)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// deleteSessionValkey 는 DEL 세 개를 DoMulti 한 번으로 보낸다.
func (s *Store) deleteSessionValkey(ctx context.Context, sessionID string) error {
	cmds := []valkey.Completed{
		s.client.B().Del().Key(s.metaKey(sessionID)).Build(),
		s.client.B().Del().Key(s.historyKey(sessionID)).Build(),
		s.client.B().Del().Key(s.stylingKey(sessionID)).Build(),
	}
	labels := []string{"meta", "history", "styling"}

	for i, result := range s.client.DoMulti(ctx, cmds...) {
		if err := result.Error(); err != nil && !valkey.IsValkeyNil(err) {
			return fmt.Errorf("delete session %s: %w", labels[i], err)
		}
	}
	return nil
}

func (s *Store) getHistoryValkey(ctx context.Context, sessionID string) ([]llm.HistoryEntry, error) {
	cmd := s.client.B().Lrange().Key(s.historyKey(sessionID)).Start(0).Stop(-1).Build()
	items, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	history := make([]llm.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry llm.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// 깨진 엔트리는 버린다
			continue
		}
		history = append(history, entry)
	}
	return history, nil
}

// appendHistoryValkey 는 RPUSH, EXPIRE, LTRIM 을 DoMulti 한 번으로 보낸다.
func (s *Store) appendHistoryValkey(ctx context.Context, sessionID string, entries ...llm.HistoryEntry) error {
	elements := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		elements = append(elements, string(data))
	}

	key := s.historyKey(sessionID)
	cmds := make([]valkey.Completed, 0, 3)
	cmds = append(cmds, s.client.B().Rpush().Key(key).Element(elements...).Build())
	cmds = append(cmds, s.client.B().Expire().Key(key).Seconds(int64(s.ttl().Seconds())).Build())
	if maxPairs := s.cfg.Session.HistoryMaxPairs; maxPairs > 0 {
		cmds = append(cmds, s.client.B().Ltrim().Key(key).Start(int64(-maxPairs*2)).Stop(-1).Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	if err := results[0].Error(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Store) setLastStylingValkey(ctx context.Context, sessionID string, compressed []byte) error {
	cmd := s.client.B().Set().Key(s.stylingKey(sessionID)).Value(string(compressed)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set styling result: %w", err)
	}
	return nil
}

func (s *Store) getLastStylingValkey(ctx context.Context, sessionID string) ([]byte, error) {
	cmd := s.client.B().Get().Key(s.stylingKey(sessionID)).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNoLastStyling
		}
		return nil, fmt.Errorf("get styling result: %w", err)
	}
	return data, nil
}

// sessionCountValkey 는 블로킹 KEYS 대신 SCAN 으로 메타 키를 센다.
func (s *Store) sessionCountValkey(ctx context.Context) (int, error) {
	var count int
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match("session:*:meta").Count(100).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		count += len(entry.Elements)
		cursor = entry.Cursor
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *Store) pingValkey(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}
