package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

const defaultFlushTimeout = 5 * time.Second

// dayDelta 는 아직 DB 에 쓰지 않은 하루치 사용량 증분이다.
type dayDelta struct {
	inputTokens     int64
	outputTokens    int64
	reasoningTokens int64
	requestCount    int64
}

func (d *dayDelta) add(other dayDelta) {
	d.inputTokens += other.inputTokens
	d.outputTokens += other.outputTokens
	d.reasoningTokens += other.reasoningTokens
	d.requestCount += other.requestCount
}

// batcher 는 토큰 사용량을 모았다가 배치로 DB 에 플러시한다.
// 연속 실패 시 지수 백오프를 걸고 실패 로그는 2의 거듭제곱 회차로 줄인다.
type batcher struct {
	repo                *Repository
	logger              *slog.Logger
	flushInterval       time.Duration
	flushTimeout        time.Duration
	maxPendingRequests  int
	maxBackoff          time.Duration
	errorLogMaxInterval time.Duration

	mu              sync.Mutex
	pending         map[time.Time]*dayDelta
	pendingRequests int

	wakeup chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}

	consecutiveFlushFailures int
	nextFlushAllowedAt       time.Time
	lastErrorLoggedAt        time.Time
}

func newBatcher(cfg *config.Config, repo *Repository, logger *slog.Logger) *batcher {
	interval := time.Duration(cfg.Database.UsageBatchFlushIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	maxBackoff := time.Duration(cfg.Database.UsageBatchMaxBackoffSeconds) * time.Second
	if maxBackoff <= 0 {
		maxBackoff = interval
	}
	maxPending := cfg.Database.UsageBatchMaxPendingRequests
	if maxPending <= 0 {
		maxPending = 1
	}
	flushTimeout := defaultFlushTimeout
	if cfg.Database.UsageBatchFlushTimeoutSeconds > 0 {
		flushTimeout = time.Duration(cfg.Database.UsageBatchFlushTimeoutSeconds) * time.Second
	}

	return &batcher{
		repo:                repo,
		logger:              logger,
		flushInterval:       interval,
		flushTimeout:        flushTimeout,
		maxPendingRequests:  maxPending,
		maxBackoff:          maxBackoff,
		errorLogMaxInterval: time.Duration(cfg.Database.UsageBatchErrorLogMaxIntervalSeconds) * time.Second,
		pending:             make(map[time.Time]*dayDelta),
		wakeup:              make(chan struct{}, 1),
		stopCh:              make(chan struct{}),
		doneCh:              make(chan struct{}),
	}
}

func (b *batcher) start() {
	go b.loop()
}

func (b *batcher) stop() {
	close(b.stopCh)
	<-b.doneCh
}

// add 는 오늘 날짜 버킷에 증분을 쌓는다. 쌓인 요청 수가 임계에 닿으면 즉시 플러시를 깨운다.
func (b *batcher) add(inputTokens int64, outputTokens int64, reasoningTokens int64, requestCount int64) {
	if inputTokens <= 0 && outputTokens <= 0 {
		return
	}

	date := todayDate()

	b.mu.Lock()
	delta := b.pending[date]
	if delta == nil {
		delta = &dayDelta{}
		b.pending[date] = delta
	}
	delta.add(dayDelta{
		inputTokens:     inputTokens,
		outputTokens:    outputTokens,
		reasoningTokens: reasoningTokens,
		requestCount:    requestCount,
	})
	b.pendingRequests += int(requestCount)
	full := b.pendingRequests >= b.maxPendingRequests
	b.mu.Unlock()

	if full {
		b.signal()
	}
}

func (b *batcher) loop() {
	ticker := time.NewTicker(b.flushInterval)
	defer func() {
		ticker.Stop()
		close(b.doneCh)
	}()

	for {
		select {
		case <-ticker.C:
			b.flush(false)
		case <-b.wakeup:
			b.flush(false)
		case <-b.stopCh:
			b.flush(true)
			return
		}
	}
}

func (b *batcher) signal() {
	select {
	case b.wakeup <- struct{}{}:
	default:
	}
}

func (b *batcher) flush(isShutdown bool) {
	if !isShutdown && b.inBackoff() {
		return
	}

	snapshot := b.drain()
	if len(snapshot) == 0 {
		return
	}

	failed, firstErr := b.writeAll(snapshot)
	if len(failed) == 0 {
		b.consecutiveFlushFailures = 0
		b.nextFlushAllowedAt = time.Time{}
		return
	}

	// 종료 중에는 재적재할 곳이 없으므로 실패분을 버린다.
	if !isShutdown {
		b.requeue(failed)
	}
	b.noteFailure(firstErr)
}

func (b *batcher) inBackoff() bool {
	return !b.nextFlushAllowedAt.IsZero() && time.Now().Before(b.nextFlushAllowedAt)
}

// drain 은 쌓인 증분을 비우고 복사본을 돌려준다.
func (b *batcher) drain() map[time.Time]dayDelta {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make(map[time.Time]dayDelta, len(b.pending))
	for date, delta := range b.pending {
		snapshot[date] = *delta
	}
	b.pending = make(map[time.Time]*dayDelta)
	b.pendingRequests = 0
	return snapshot
}

func (b *batcher) writeAll(snapshot map[time.Time]dayDelta) (map[time.Time]dayDelta, error) {
	var failed map[time.Time]dayDelta
	var firstErr error
	for date, delta := range snapshot {
		if err := b.writeOne(date, delta); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if failed == nil {
				failed = make(map[time.Time]dayDelta)
			}
			failed[date] = delta
		}
	}
	return failed, firstErr
}

func (b *batcher) writeOne(date time.Time, delta dayDelta) error {
	ctx := context.Background()
	cancel := func() {}
	if b.flushTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.flushTimeout)
	}
	defer cancel()

	return b.repo.RecordUsage(
		ctx,
		delta.inputTokens,
		delta.outputTokens,
		delta.reasoningTokens,
		delta.requestCount,
		date,
	)
}

// requeue 는 실패한 증분을 잠금 한 번으로 pending 에 되돌린다.
func (b *batcher) requeue(failed map[time.Time]dayDelta) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for date, delta := range failed {
		existing := b.pending[date]
		if existing == nil {
			existing = &dayDelta{}
			b.pending[date] = existing
		}
		existing.add(delta)
		b.pendingRequests += int(delta.requestCount)
	}
}

func (b *batcher) noteFailure(firstErr error) {
	b.consecutiveFlushFailures++
	backoff := b.computeBackoff()
	b.nextFlushAllowedAt = time.Now().Add(backoff)

	if !b.shouldLogFailure() {
		return
	}
	b.lastErrorLoggedAt = time.Now()
	if b.logger != nil {
		b.logger.Warn(
			"usage_db_batch_flush_failed",
			"failures", b.consecutiveFlushFailures,
			"backoff", backoff,
			"pending_requests", b.pendingRequests,
			"err", firstErr,
		)
	}
}

func (b *batcher) computeBackoff() time.Duration {
	shift := b.consecutiveFlushFailures - 1
	if shift < 0 {
		shift = 0
	}
	backoff := b.flushInterval << shift
	if backoff > b.maxBackoff || backoff <= 0 {
		backoff = b.maxBackoff
	}
	return backoff
}

func (b *batcher) shouldLogFailure() bool {
	if b.consecutiveFlushFailures <= 0 {
		return false
	}
	if isPowerOfTwo(b.consecutiveFlushFailures) {
		return true
	}
	if b.errorLogMaxInterval <= 0 {
		return false
	}
	return time.Since(b.lastErrorLoggedAt) >= b.errorLogMaxInterval
}

func isPowerOfTwo(value int) bool {
	return value > 0 && (value&(value-1)) == 0
}
