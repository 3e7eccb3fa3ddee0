package usage

import "time"

// TokenUsage 는 하루 단위로 누적되는 토큰 사용량 테이블의 행이다.
// usage_date 유니크 인덱스가 upsert 의 충돌 기준이 된다.
type TokenUsage struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UsageDate       time.Time `gorm:"column:usage_date;type:date;uniqueIndex:idx_token_usage_usage_date"`
	InputTokens     int64     `gorm:"column:input_tokens;not null;default:0"`
	OutputTokens    int64     `gorm:"column:output_tokens;not null;default:0"`
	ReasoningTokens int64     `gorm:"column:reasoning_tokens;not null;default:0"`
	RequestCount    int64     `gorm:"column:request_count;not null;default:0"`
	Version         int64     `gorm:"column:version;not null;default:0"`
}

func (TokenUsage) TableName() string {
	return "token_usage"
}

// daily 는 DB 행을 조회 응답용 뷰로 바꾼다.
func (t TokenUsage) daily() DailyUsage {
	return DailyUsage{
		UsageDate:       t.UsageDate,
		InputTokens:     t.InputTokens,
		OutputTokens:    t.OutputTokens,
		ReasoningTokens: t.ReasoningTokens,
		RequestCount:    t.RequestCount,
	}
}

// DailyUsage 는 하루치 사용량의 조회용 뷰다. 합계 조회에도 같은 형태를 쓴다.
type DailyUsage struct {
	UsageDate       time.Time
	InputTokens     int64
	OutputTokens    int64
	ReasoningTokens int64
	RequestCount    int64
}

// TotalTokens 는 입력과 출력 토큰의 합이다. 추론 토큰은 출력에 이미 포함돼 있다.
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}
