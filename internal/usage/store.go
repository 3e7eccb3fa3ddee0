package usage

import (
	"context"
	"time"
)

// Store 는 사용량 핸들러가 의존하는 저장소 인터페이스다.
// usageDate 가 zero time 이면 오늘 날짜로 처리한다.
type Store interface {
	// RecordUsage 는 하루 단위 행에 사용량 증분을 누적한다.
	RecordUsage(
		ctx context.Context,
		inputTokens int64,
		outputTokens int64,
		reasoningTokens int64,
		requestCount int64,
		usageDate time.Time,
	) error

	// GetDailyUsage 는 해당 날짜의 사용량을 돌려준다. 기록이 없으면 nil 을 돌려준다.
	GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error)

	// GetRecentUsage 는 최근 days 일의 일별 사용량을 최신 날짜부터 돌려준다.
	GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error)

	// GetTotalUsage 는 최근 days 일 사용량의 합계를 돌려준다.
	GetTotalUsage(ctx context.Context, days int) (DailyUsage, error)
}

var _ Store = (*Repository)(nil)
