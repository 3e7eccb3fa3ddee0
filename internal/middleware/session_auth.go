package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/session"
)

// SessionCookie 는 로그인 세션 쿠키 이름이다.
const SessionCookie = "ss_session"

const (
	sessionIDKey = "session_id"
	userEmailKey = "user_email"
)

// SessionAuth 는 로그인 세션을 요구하는 미들웨어다.
// ss_session 쿠키 또는 Authorization: Bearer 토큰에서 세션을 확인한다.
func SessionAuth(store session.Storage, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractSessionToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		meta, err := store.GetSession(c.Request.Context(), token)
		if err != nil {
			if logger != nil && !errors.Is(err, session.ErrSessionNotFound) {
				logger.Warn("session_auth_failed", "err", err)
			}
			abortUnauthorized(c)
			return
		}

		c.Set(sessionIDKey, meta.ID)
		c.Set(userEmailKey, meta.Email)
		c.Next()
	}
}

// GetSessionID 는 인증된 요청의 세션 ID를 반환한다.
func GetSessionID(c *gin.Context) string {
	return stringFromContext(c, sessionIDKey)
}

// GetUserEmail 는 인증된 요청의 사용자 이메일을 반환한다.
func GetUserEmail(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get(key)
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return text
}

func extractSessionToken(c *gin.Context) string {
	if c == nil {
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if token := strings.TrimSpace(cookie); token != "" {
			return token
		}
	}
	return bearerToken(c)
}

func abortUnauthorized(c *gin.Context) {
	status, payload := httperror.Response(httperror.NewUnauthorized("Unauthorized", nil), GetRequestID(c))
	c.AbortWithStatusJSON(status, payload)
}
