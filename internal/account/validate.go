package account

import "regexp"

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func validateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePassword: 통과 여부와 사용자에게 보여줄 메시지를 반환한다.
func validatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	// bcrypt 입력 길이 제한(72 bytes)을 넘는 비밀번호는 거부한다.
	if len(password) > 72 {
		return false, "Password must be at most 72 characters long"
	}
	if !upperPattern.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !lowerPattern.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !digitPattern.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	if !specialPattern.MatchString(password) {
		return false, "Password must contain at least one special character"
	}
	return true, "Password is strong"
}
