package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 는 token_usage 테이블을 읽고 쓴다.
// GORM 핸들은 부트스트랩에서 열어 account/history 저장소와 공유한다.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate 는 토큰 사용량 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("usage db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&TokenUsage{}); err != nil {
		return fmt.Errorf("auto migrate token_usage: %w", err)
	}
	return nil
}

// RecordUsage 는 usageDate(zero 면 오늘) 행에 사용량을 upsert 로 누적한다.
func (r *Repository) RecordUsage(
	ctx context.Context,
	inputTokens int64,
	outputTokens int64,
	reasoningTokens int64,
	requestCount int64,
	usageDate time.Time,
) error {
	if requestCount <= 0 && inputTokens <= 0 && outputTokens <= 0 {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("usage db is nil")
	}

	row := TokenUsage{
		UsageDate:       orToday(usageDate),
		InputTokens:     inputTokens,
		OutputTokens:    outputTokens,
		ReasoningTokens: reasoningTokens,
		RequestCount:    requestCount,
	}

	// EXCLUDED 참조는 postgres/sqlite 양쪽에서 동작한다.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"input_tokens":     gorm.Expr("input_tokens + EXCLUDED.input_tokens"),
			"output_tokens":    gorm.Expr("output_tokens + EXCLUDED.output_tokens"),
			"reasoning_tokens": gorm.Expr("reasoning_tokens + EXCLUDED.reasoning_tokens"),
			"request_count":    gorm.Expr("request_count + EXCLUDED.request_count"),
			"version":          gorm.Expr("version + 1"),
		}),
	}).Create(&row).Error
}

// GetDailyUsage 는 usageDate(zero 면 오늘)의 사용량을 조회한다. 행이 없으면 nil 을 돌려준다.
func (r *Repository) GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("usage db is nil")
	}

	var row TokenUsage
	result := r.db.WithContext(ctx).Where("usage_date = ?", orToday(usageDate)).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	daily := row.daily()
	return &daily, nil
}

// GetRecentUsage 는 최근 days 일의 일별 사용량을 최신 날짜부터 돌려준다.
func (r *Repository) GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("usage db is nil")
	}
	if days <= 0 {
		days = 7
	}

	var rows []TokenUsage
	if err := r.db.WithContext(ctx).Order("usage_date desc").Limit(days).Find(&rows).Error; err != nil {
		return nil, err
	}

	usages := make([]DailyUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, row.daily())
	}
	return usages, nil
}

// GetTotalUsage 는 최근 days 일 합계를 조회한다. UsageDate 에는 오늘 날짜를 채운다.
func (r *Repository) GetTotalUsage(ctx context.Context, days int) (DailyUsage, error) {
	if r == nil || r.db == nil {
		return DailyUsage{}, errors.New("usage db is nil")
	}
	if days <= 0 {
		days = 30
	}

	type sums struct {
		InputTokens     int64
		OutputTokens    int64
		ReasoningTokens int64
		RequestCount    int64
	}

	// 날짜 연산은 드라이버마다 달라 컷오프를 Go 쪽에서 계산한다.
	cutoff := todayDate().AddDate(0, 0, -days)

	var total sums
	err := r.db.WithContext(ctx).Model(&TokenUsage{}).
		Select("COALESCE(SUM(input_tokens), 0) as input_tokens," +
			" COALESCE(SUM(output_tokens), 0) as output_tokens," +
			" COALESCE(SUM(reasoning_tokens), 0) as reasoning_tokens," +
			" COALESCE(SUM(request_count), 0) as request_count").
		Where("usage_date >= ?", cutoff).
		Scan(&total).Error
	if err != nil {
		return DailyUsage{}, err
	}

	return DailyUsage{
		UsageDate:       todayDate(),
		InputTokens:     total.InputTokens,
		OutputTokens:    total.OutputTokens,
		ReasoningTokens: total.ReasoningTokens,
		RequestCount:    total.RequestCount,
	}, nil
}

// orToday 는 zero time 을 오늘 날짜로 바꾼다.
func orToday(date time.Time) time.Time {
	if date.IsZero() {
		return todayDate()
	}
	return date
}

func todayDate() time.Time {
	now := time.Now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
