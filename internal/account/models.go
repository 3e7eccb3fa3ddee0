package account

import "time"

// userModel: users 테이블 매핑 (password_hash는 절대 API로 노출하지 않음)
type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (userModel) TableName() string { return "users" }

// User: API 응답용 유저 정보
type User struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(m *userModel) *User {
	if m == nil {
		return nil
	}
	return &User{
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}
