package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger 는 요청 한 건마다 http_request 로그를 한 줄 남긴다.
// 성공한 헬스 체크 요청은 건너뛴다.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return func(c *gin.Context) {
		start := time.Now()
		// 핸들러가 요청을 고쳐 쓸 수 있으니 진입 시점 값을 붙잡아 둔다.
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		failed := status >= http.StatusBadRequest || len(c.Errors) > 0
		if !failed && isProbePath(path) {
			return
		}

		fields := []any{
			"request_id", GetRequestID(c),
			"method", method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		logger.Log(c.Request.Context(), levelForStatus(status), "http_request", fields...)
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// isProbePath 는 오케스트레이터가 주기적으로 찌르는 경로인지 판별한다.
func isProbePath(path string) bool {
	switch path {
	case "/health", "/health/ready", "/health/models":
		return true
	default:
		return false
	}
}
