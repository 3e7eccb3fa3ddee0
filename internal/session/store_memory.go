package session

import (
	"strings"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// 메모리 백엔드는 Valkey 없이 단일 프로세스 안에서 세션을 유지한다.
// 키별 만료 시각을 따로 기록해 두고 접근할 때마다 지난 항목을 걷어낸다.

func (s *Store) createSessionMemory(meta Meta) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)
	s.meta[meta.ID] = meta
	touchExpiry(s.metaExpiry, meta.ID, s.expiryAt(now))
	return nil
}

func (s *Store) getSessionMemory(sessionID string) (*Meta, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())

	meta, ok := s.meta[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := meta
	return &copied, nil
}

func (s *Store) updateSessionMemory(meta Meta) error {
	now := time.Now()
	meta.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)
	s.meta[meta.ID] = meta
	touchExpiry(s.metaExpiry, meta.ID, s.expiryAt(now))
	return nil
}

func (s *Store) deleteSessionMemory(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meta, sessionID)
	delete(s.history, sessionID)
	delete(s.stylingBlob, sessionID)
	delete(s.metaExpiry, sessionID)
	delete(s.historyExpiry, sessionID)
	delete(s.stylingExpiry, sessionID)
	return nil
}

func (s *Store) getHistoryMemory(sessionID string) []llm.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())

	history := s.history[sessionID]
	if len(history) == 0 {
		return nil
	}
	return append([]llm.HistoryEntry(nil), history...)
}

func (s *Store) appendHistoryMemory(sessionID string, entries ...llm.HistoryEntry) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	merged := append(s.history[sessionID], entries...)
	if limit := s.historyLimit(); limit > 0 && len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	s.history[sessionID] = merged
	touchExpiry(s.historyExpiry, sessionID, s.expiryAt(now))
	return nil
}

func (s *Store) setLastStylingMemory(sessionID string, compressed []byte) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)
	s.stylingBlob[sessionID] = compressed
	touchExpiry(s.stylingExpiry, sessionID, s.expiryAt(now))
	return nil
}

func (s *Store) getLastStylingMemory(sessionID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())

	data, ok := s.stylingBlob[sessionID]
	return data, ok
}

func (s *Store) sessionCountMemory() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())
	return len(s.meta)
}

// historyLimit 히스토리 엔트리 상한. user/model 쌍 단위 설정을 엔트리 수로 바꾼다.
func (s *Store) historyLimit() int {
	if s.cfg.Session.HistoryMaxPairs <= 0 {
		return 0
	}
	return s.cfg.Session.HistoryMaxPairs * 2
}

// expiryAt TTL을 더한 만료 시각. TTL이 없으면 0값을 돌려 만료 없음을 뜻한다.
func (s *Store) expiryAt(now time.Time) time.Time {
	ttl := s.ttl()
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// touchExpiry 만료 시각 갱신. 0값이면 만료 없음이므로 기존 기록을 지운다.
func touchExpiry(expiry map[string]time.Time, id string, at time.Time) {
	if at.IsZero() {
		delete(expiry, id)
		return
	}
	expiry[id] = at
}

// pruneExpiredLocked 만료된 항목 일괄 제거. 호출자가 락을 잡고 있어야 한다.
func (s *Store) pruneExpiredLocked(now time.Time) {
	pruneMap(s.metaExpiry, s.meta, now)
	pruneMap(s.historyExpiry, s.history, now)
	pruneMap(s.stylingExpiry, s.stylingBlob, now)
}

func pruneMap[V any](expiry map[string]time.Time, data map[string]V, now time.Time) {
	for id, at := range expiry {
		if at.IsZero() || now.Before(at) {
			continue
		}
		delete(expiry, id)
		delete(data, id)
	}
}
