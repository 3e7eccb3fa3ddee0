package account

import "errors"

var (
	// ErrEmailExists: 이미 가입된 이메일
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials: 이메일 또는 비밀번호 불일치
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound: 유저 레코드가 존재하지 않음
	ErrUserNotFound = errors.New("user not found")
)

// PolicyError: 가입 입력 검증 실패. Message는 그대로 사용자에게 노출된다.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}
