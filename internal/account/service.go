package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service: 회원 가입/인증을 담당하는 계정 서비스
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewService: 계정 서비스를 생성한다.
func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// AutoMigrate: 유저 테이블 스키마를 마이그레이션한다.
func (s *Service) AutoMigrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("account db is nil")
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&userModel{}); err != nil {
		return fmt.Errorf("auto migrate users: %w", err)
	}
	return nil
}

// Register: 신규 사용자 등록
func (s *Service) Register(ctx context.Context, email, password, confirm string) (*User, error) {
	email = strings.TrimSpace(email)

	if !validateEmail(email) {
		return nil, &PolicyError{Message: "Invalid email format"}
	}
	if password != confirm {
		return nil, &PolicyError{Message: "Passwords do not match"}
	}
	if ok, message := validatePassword(password); !ok {
		return nil, &PolicyError{Message: message}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	model := &userModel{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user_registered", "email", email)
	}
	return toUser(model), nil
}

// Authenticate: 이메일/비밀번호 검증 후 유저 반환
// 유저 존재 여부를 구분하지 않고 동일한 오류를 돌려준다.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user userModel
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return toUser(&user), nil
}

// GetByEmail: 이메일로 유저 조회
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user userModel
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return toUser(&user), nil
}
