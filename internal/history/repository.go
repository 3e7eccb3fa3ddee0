package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository: 스타일링 이력 DB 접근을 담당한다.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRepository: 이력 저장소를 생성한다.
func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// AutoMigrate: 이력 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("history db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("auto migrate styling_history: %w", err)
	}
	return nil
}

// Save: 생성된 스타일링 결과를 이력에 추가한다.
func (r *Repository) Save(
	ctx context.Context,
	email string,
	profile styling.Profile,
	result styling.Recommendation,
) error {
	if r == nil || r.db == nil {
		return errors.New("history db is nil")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal styling result: %w", err)
	}

	entry := Entry{
		Email:    email,
		Occasion: profile.Occasion,
		SkinTone: string(profile.SkinTone),
		Gender:   profile.Gender,
		Age:      profile.Age,
		Budget:   profile.Budget,
		Result:   string(payload),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("save styling history: %w", err)
	}
	return nil
}

// Recent: 특정 사용자의 이력을 최신순으로 조회한다.
func (r *Repository) Recent(ctx context.Context, email string, limit int) ([]Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("history db is nil")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var rows []Entry
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var result styling.Recommendation
		if row.Result != "" {
			if err := json.Unmarshal([]byte(row.Result), &result); err != nil {
				// 손상된 행은 건너뛰고 나머지 이력은 그대로 반환한다.
				if r.logger != nil {
					r.logger.Warn("history_result_decode_failed", "id", row.ID, "err", err)
				}
				continue
			}
		}
		records = append(records, Record{
			Date:     row.CreatedAt.Format(time.RFC3339),
			Occasion: row.Occasion,
			SkinTone: row.SkinTone,
			Gender:   row.Gender,
			Age:      row.Age,
			Budget:   row.Budget,
			Result:   result,
		})
	}
	return records, nil
}
