package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Harshini-A12/Stylesense/internal/account"
	"github.com/Harshini-A12/Stylesense/internal/gemini"
	"github.com/Harshini-A12/Stylesense/internal/guard"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/upload"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 분류되지 않은 서버 오류다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 요청 본문 검증 실패다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized 는 세션 또는 관리자 키 인증 실패다.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeHTTPRateLimit 는 요청 빈도 제한 초과다.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeAccountPolicy 는 가입 입력이 계정 정책에 걸린 경우다.
	ErrorCodeAccountPolicy ErrorCode = "ACCOUNT_POLICY"
	// ErrorCodeEmailExists 는 이미 가입된 이메일이다.
	ErrorCodeEmailExists ErrorCode = "EMAIL_EXISTS"
	// ErrorCodeInvalidCredentials 는 이메일 또는 비밀번호 불일치다.
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrorCodeLLM 는 모델 호출 실패다.
	ErrorCodeLLM ErrorCode = "LLM_ERROR"
	// ErrorCodeLLMTimeout 는 모델 응답 대기 초과다.
	ErrorCodeLLMTimeout ErrorCode = "LLM_TIMEOUT"
	// ErrorCodeLLMModel 는 허용되지 않은 모델 지정이다.
	ErrorCodeLLMModel ErrorCode = "LLM_MODEL_ERROR"
	// ErrorCodeSessionNotFound 는 존재하지 않거나 만료된 세션이다.
	ErrorCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrorCodeSessionLimit 는 동시 세션 수 초과다.
	ErrorCodeSessionLimit ErrorCode = "SESSION_LIMIT_EXCEEDED"
	// ErrorCodeResultNotFound 는 조회할 스타일링 결과가 없는 경우다.
	ErrorCodeResultNotFound ErrorCode = "RESULT_NOT_FOUND"
	// ErrorCodeUploadTooLarge 는 업로드 이미지 크기 초과다.
	ErrorCodeUploadTooLarge ErrorCode = "UPLOAD_TOO_LARGE"
	// ErrorCodeUploadUnsupported 는 허용되지 않는 이미지 형식이다.
	ErrorCodeUploadUnsupported ErrorCode = "UPLOAD_UNSUPPORTED_TYPE"
	// ErrorCodeGuardBlocked 는 프롬프트 주입 가드에 차단된 입력이다.
	ErrorCodeGuardBlocked ErrorCode = "GUARD_BLOCKED"
	// ErrorCodeInvalidInput 는 형식은 맞지만 받아들일 수 없는 입력이다.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingField 는 필수 필드 누락이다.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrorResponse 는 API 오류 응답 본문이다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, status int, errType, message string) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Type:    errType,
		Message: message,
	}
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	resp := ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		Details:   apiErr.Details,
	}
	if requestID != "" {
		resp.RequestID = &requestID
	}
	return apiErr.Status, resp
}

// FromError 는 도메인 오류를 API 오류로 변환한다.
// 매핑되지 않는 오류는 내부 오류로 처리한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if mapped := fromAccountError(err); mapped != nil {
		return mapped
	}
	if mapped := fromUploadError(err); mapped != nil {
		return mapped
	}
	if mapped := fromSessionError(err); mapped != nil {
		return mapped
	}
	if mapped := fromModelError(err); mapped != nil {
		return mapped
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

func fromAccountError(err error) *Error {
	var policyErr *account.PolicyError
	switch {
	case errors.As(err, &policyErr):
		return NewAccountPolicyError(policyErr.Message)
	case errors.Is(err, account.ErrEmailExists):
		return NewEmailExists()
	case errors.Is(err, account.ErrInvalidCredentials):
		return NewInvalidCredentials()
	case errors.Is(err, account.ErrUserNotFound):
		return NewUnauthorized("Unauthorized", nil)
	}
	return nil
}

func fromUploadError(err error) *Error {
	switch {
	case errors.Is(err, upload.ErrNoImage):
		return NewInvalidInput("No image selected")
	case errors.Is(err, upload.ErrTooLarge):
		return NewUploadTooLarge()
	case errors.Is(err, upload.ErrUnsupportedType):
		return NewUploadUnsupportedType()
	}
	return nil
}

func fromSessionError(err error) *Error {
	switch {
	case errors.Is(err, session.ErrNoLastStyling):
		return NewResultNotFound()
	case errors.Is(err, session.ErrTooManySessions):
		return NewSessionLimitExceeded()
	case errors.Is(err, session.ErrSessionNotFound):
		return NewSessionNotFound()
	}
	return nil
}

// fromModelError 는 모델 호출 경로의 오류를 매핑한다.
// 주입 가드 차단도 모델 호출 전 단계라 여기서 함께 처리한다.
func fromModelError(err error) *Error {
	var blocked *guard.BlockedError
	switch {
	case errors.As(err, &blocked):
		return NewGuardBlocked(blocked.Score, blocked.Threshold)
	case errors.Is(err, gemini.ErrInvalidModel):
		return NewLLMModelError("Invalid model")
	case errors.Is(err, gemini.ErrMissingAPIKey):
		return NewLLMError("Missing Gemini API key", http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return NewLLMTimeoutError("LLM request timed out")
	}
	return nil
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return newError(ErrorCodeInternal, http.StatusInternalServerError, "InternalError", message)
}

// NewValidationError 는 검증 오류를 생성한다.
// 필드별 상세는 Details.errors 에 담는다.
func NewValidationError(err error) *Error {
	apiErr := newError(ErrorCodeValidation, http.StatusUnprocessableEntity, "ValidationError", "Input validation failed")
	apiErr.Details = validationDetails(err)
	return apiErr
}

// NewMissingField 는 누락 필드 오류를 생성한다.
func NewMissingField(field string) *Error {
	apiErr := newError(ErrorCodeMissingField, http.StatusBadRequest, "MissingFieldError", fmt.Sprintf("Field '%s' required", field))
	apiErr.Details = map[string]any{"field": field}
	return apiErr
}

// NewInvalidInput 는 입력 오류를 생성한다.
func NewInvalidInput(message string) *Error {
	return newError(ErrorCodeInvalidInput, http.StatusBadRequest, "InvalidInputError", message)
}

// NewUnauthorized 는 인증 오류를 생성한다.
func NewUnauthorized(message string, details map[string]any) *Error {
	apiErr := newError(ErrorCodeUnauthorized, http.StatusUnauthorized, "UnauthorizedError", message)
	apiErr.Details = details
	return apiErr
}

// NewRateLimitExceeded 는 요청 제한 오류를 생성한다.
func NewRateLimitExceeded(details map[string]any) *Error {
	apiErr := newError(ErrorCodeHTTPRateLimit, http.StatusTooManyRequests, "HTTPRateLimitExceededError", "Rate limit exceeded")
	apiErr.Details = details
	return apiErr
}

// NewAccountPolicyError 는 가입 검증 실패 오류를 생성한다.
// 계정 서비스의 정책 문구를 그대로 노출한다.
func NewAccountPolicyError(message string) *Error {
	return newError(ErrorCodeAccountPolicy, http.StatusBadRequest, "AccountPolicyError", message)
}

// NewEmailExists 는 이메일 중복 오류를 생성한다.
func NewEmailExists() *Error {
	return newError(ErrorCodeEmailExists, http.StatusConflict, "EmailExistsError", "Email already registered")
}

// NewInvalidCredentials 는 로그인 실패 오류를 생성한다.
func NewInvalidCredentials() *Error {
	return newError(ErrorCodeInvalidCredentials, http.StatusUnauthorized, "InvalidCredentialsError", "Invalid email or password")
}

// NewSessionNotFound 는 세션 미존재 오류를 생성한다.
func NewSessionNotFound() *Error {
	return newError(ErrorCodeSessionNotFound, http.StatusNotFound, "SessionNotFoundError", "Session not found")
}

// NewSessionLimitExceeded 는 세션 제한 초과 오류를 생성한다.
func NewSessionLimitExceeded() *Error {
	return newError(ErrorCodeSessionLimit, http.StatusTooManyRequests, "SessionLimitExceededError", "Too many active sessions")
}

// NewResultNotFound 는 스타일링 결과 미존재 오류를 생성한다.
func NewResultNotFound() *Error {
	return newError(ErrorCodeResultNotFound, http.StatusNotFound, "ResultNotFoundError", "No styling result found")
}

// NewUploadTooLarge 는 업로드 크기 초과 오류를 생성한다.
func NewUploadTooLarge() *Error {
	return newError(ErrorCodeUploadTooLarge, http.StatusRequestEntityTooLarge, "UploadTooLargeError", "Uploaded image is too large")
}

// NewUploadUnsupportedType 는 업로드 형식 오류를 생성한다.
func NewUploadUnsupportedType() *Error {
	return newError(ErrorCodeUploadUnsupported, http.StatusUnsupportedMediaType, "UploadUnsupportedTypeError", "Unsupported image type. Allowed: jpg, jpeg, png, webp")
}

// NewGuardBlocked 는 가드 차단 오류를 생성한다.
func NewGuardBlocked(score float64, threshold float64) *Error {
	apiErr := newError(ErrorCodeGuardBlocked, http.StatusBadRequest, "GuardBlockedError",
		fmt.Sprintf("Input blocked by injection guard (score=%.2f, threshold=%.2f)", score, threshold))
	apiErr.Details = map[string]any{"score": score, "threshold": threshold}
	return apiErr
}

// NewLLMModelError 는 LLM 모델 오류를 생성한다.
func NewLLMModelError(message string) *Error {
	return newError(ErrorCodeLLMModel, http.StatusBadRequest, "LLMModelError", message)
}

// NewLLMTimeoutError 는 LLM 타임아웃 오류를 생성한다.
func NewLLMTimeoutError(message string) *Error {
	return newError(ErrorCodeLLMTimeout, http.StatusGatewayTimeout, "LLMTimeoutError", message)
}

// NewLLMError 는 LLM 오류를 생성한다.
func NewLLMError(message string, status int) *Error {
	return newError(ErrorCodeLLM, status, "LLMError", message)
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]any{
			"errors": []FieldError{{Field: "body", Message: err.Error()}},
		}
	}

	fields := make([]FieldError, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields = append(fields, FieldError{
			Field:   fieldErr.Field(),
			Message: fieldErr.Error(),
			Value:   fieldErr.Value(),
		})
	}
	return map[string]any{"errors": fields}
}
