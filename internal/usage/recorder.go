package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

// Recorder 는 LLM 호출 한 건의 토큰 사용량을 DB 에 남긴다.
// 배치 모드가 켜져 있으면 batcher 에 위임하고, 아니면 즉시 기록한다.
type Recorder struct {
	repo    *Repository
	batcher *batcher
	logger  *slog.Logger
}

// NewRecorder 는 설정을 보고 배치 모드 여부를 결정한다.
func NewRecorder(cfg *config.Config, repo *Repository, logger *slog.Logger) *Recorder {
	recorder := &Recorder{repo: repo, logger: logger}
	if cfg == nil || !cfg.Database.UsageBatchEnabled {
		return recorder
	}

	recorder.batcher = newBatcher(cfg, repo, logger)
	recorder.batcher.start()
	if logger != nil {
		logger.Info(
			"usage_db_batch_enabled",
			"flush_interval_seconds", cfg.Database.UsageBatchFlushIntervalSeconds,
			"flush_timeout_seconds", cfg.Database.UsageBatchFlushTimeoutSeconds,
			"max_pending_requests", cfg.Database.UsageBatchMaxPendingRequests,
			"max_backoff_seconds", cfg.Database.UsageBatchMaxBackoffSeconds,
			"error_log_max_interval_seconds", cfg.Database.UsageBatchErrorLogMaxIntervalSeconds,
		)
	}
	return recorder
}

// Record 는 요청 1건의 사용량을 기록한다. 저장 실패는 경고 로그로만 남기고 응답 경로를 막지 않는다.
func (r *Recorder) Record(ctx context.Context, inputTokens int64, outputTokens int64, reasoningTokens int64) {
	if r == nil || r.repo == nil {
		return
	}
	if inputTokens <= 0 && outputTokens <= 0 {
		return
	}

	if r.batcher != nil {
		r.batcher.add(inputTokens, outputTokens, reasoningTokens, 1)
		return
	}

	if err := r.repo.RecordUsage(ctx, inputTokens, outputTokens, reasoningTokens, 1, time.Time{}); err != nil {
		if r.logger != nil {
			r.logger.Warn("usage_db_save_failed", "err", err)
		}
	}
}

// Close 는 배치 플러셔를 멈추고 남은 증분을 마지막으로 플러시한다.
func (r *Recorder) Close() {
	if r == nil || r.batcher == nil {
		return
	}
	r.batcher.stop()
}
