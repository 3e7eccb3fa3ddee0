package history

import (
	"time"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
)

// Entry: 스타일링 생성 이력 한 건 (result 는 추천 JSON 원문)
type Entry struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string    `gorm:"column:email;not null;index"`
	Occasion  string    `gorm:"column:occasion;not null"`
	SkinTone  string    `gorm:"column:skin_tone;not null"`
	Gender    string    `gorm:"column:gender;not null"`
	Age       string    `gorm:"column:age;not null;default:''"`
	Budget    string    `gorm:"column:budget;not null;default:''"`
	Result    string    `gorm:"column:result;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;index"`
}

func (Entry) TableName() string { return "styling_history" }

// Record: API 응답용 이력 항목
type Record struct {
	Date     string                 `json:"date"`
	Occasion string                 `json:"occasion"`
	SkinTone string                 `json:"skin_tone"`
	Gender   string                 `json:"gender"`
	Age      string                 `json:"age"`
	Budget   string                 `json:"budget"`
	Result   styling.Recommendation `json:"result"`
}
