package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/httperror"
)

// AdminAPIKey 는 관리용 라우트 그룹에 붙는 API 키 인증 미들웨어다.
// X-API-Key 헤더 또는 Authorization: Bearer 토큰을 받는다.
// 키가 설정돼 있지 않으면 경고만 남기고 전부 통과시킨다.
func AdminAPIKey(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	expected := ""
	if cfg != nil {
		expected = strings.TrimSpace(cfg.HTTPAuth.APIKey)
	}
	if expected == "" && logger != nil {
		logger.Warn("admin_api_key_disabled")
	}

	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		// 길이가 다르면 ConstantTimeCompare 가 0 을 돌려주므로 빈 키도 여기서 걸러진다.
		provided := extractAPIKey(c)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			details := map[string]any{"path": c.Request.URL.Path}
			status, payload := httperror.Response(httperror.NewUnauthorized("Unauthorized", details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if key := strings.TrimSpace(c.GetHeader("X-API-Key")); key != "" {
		return key
	}
	return bearerToken(c)
}

// bearerToken 은 Authorization 헤더에서 Bearer 토큰을 꺼낸다.
func bearerToken(c *gin.Context) string {
	value := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(value) < 7 || !strings.EqualFold(value[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[7:])
}
