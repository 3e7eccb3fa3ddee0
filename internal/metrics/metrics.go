package metrics

import (
	"sync/atomic"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// Store 는 LLM 호출과 스타일링 파이프라인 통계를 저장한다.
type Store struct {
	totalCalls            int64
	totalErrors           int64
	totalInputTokens      int64
	totalOutputTokens     int64
	totalReasoningTokens  int64
	totalCachedTokens     int64
	totalDurationMs       int64
	totalStyling          int64
	totalChatTurns        int64
	totalFallbacks        int64
	totalParseFailures    int64
	totalRepairedPlatform int64
	totalGuardBlocks      int64
	totalToneDefaults     int64
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	return &Store{}
}

// RecordSuccess 는 성공 호출 통계를 기록한다.
func (s *Store) RecordSuccess(duration time.Duration, usage llm.Usage) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalReasoningTokens, int64(usage.ReasoningTokens))
	atomic.AddInt64(&s.totalCachedTokens, int64(usage.CachedTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
}

// RecordError 는 실패 호출 통계를 기록한다.
func (s *Store) RecordError(duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
}

// RecordStyling 은 스타일링 추천 생성을 기록한다.
func (s *Store) RecordStyling() {
	atomic.AddInt64(&s.totalStyling, 1)
}

// RecordChatTurn 은 후속 채팅 턴을 기록한다.
func (s *Store) RecordChatTurn() {
	atomic.AddInt64(&s.totalChatTurns, 1)
}

// RecordFallback 은 정적 폴백 코디 사용을 기록한다.
func (s *Store) RecordFallback() {
	atomic.AddInt64(&s.totalFallbacks, 1)
}

// RecordParseFailure 는 모델 응답 파싱 실패를 기록한다.
func (s *Store) RecordParseFailure() {
	atomic.AddInt64(&s.totalParseFailures, 1)
}

// RecordRepairedPlatforms 는 키워드 보정된 플랫폼 수를 기록한다.
func (s *Store) RecordRepairedPlatforms(count int) {
	if count <= 0 {
		return
	}
	atomic.AddInt64(&s.totalRepairedPlatform, int64(count))
}

// RecordGuardBlock 은 가드 차단을 기록한다.
func (s *Store) RecordGuardBlock() {
	atomic.AddInt64(&s.totalGuardBlocks, 1)
}

// RecordToneDefault 는 피부톤 분류가 기본값으로 대체된 경우를 기록한다.
func (s *Store) RecordToneDefault() {
	atomic.AddInt64(&s.totalToneDefaults, 1)
}

// UsageTotals 는 누적 사용량을 반환한다.
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	reasoning := atomic.LoadInt64(&s.totalReasoningTokens)
	cached := atomic.LoadInt64(&s.totalCachedTokens)
	return llm.Usage{
		InputTokens:     int(input),
		OutputTokens:    int(output),
		TotalTokens:     int(input + output),
		ReasoningTokens: int(reasoning),
		CachedTokens:    int(cached),
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	usageTotals := s.UsageTotals()
	durationMs := atomic.LoadInt64(&s.totalDurationMs)
	styling := atomic.LoadInt64(&s.totalStyling)
	chatTurns := atomic.LoadInt64(&s.totalChatTurns)
	fallbacks := atomic.LoadInt64(&s.totalFallbacks)
	parseFailures := atomic.LoadInt64(&s.totalParseFailures)
	repaired := atomic.LoadInt64(&s.totalRepairedPlatform)
	guardBlocks := atomic.LoadInt64(&s.totalGuardBlocks)
	toneDefaults := atomic.LoadInt64(&s.totalToneDefaults)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":             float64(totalCalls),
		"total_errors":            float64(totalErrors),
		"total_input_tokens":      float64(usageTotals.InputTokens),
		"total_output_tokens":     float64(usageTotals.OutputTokens),
		"total_reasoning_tokens":  float64(usageTotals.ReasoningTokens),
		"total_cached_tokens":     float64(usageTotals.CachedTokens),
		"total_tokens":            float64(usageTotals.TotalTokens),
		"cache_hit_ratio":         usageTotals.CacheHitRatio(),
		"total_duration_ms":       float64(durationMs),
		"avg_duration_ms":         avgDuration,
		"total_styling":           float64(styling),
		"total_chat_turns":        float64(chatTurns),
		"total_fallbacks":         float64(fallbacks),
		"total_parse_failures":    float64(parseFailures),
		"total_repaired_platform": float64(repaired),
		"total_guard_blocks":      float64(guardBlocks),
		"total_tone_defaults":     float64(toneDefaults),
	}
}
