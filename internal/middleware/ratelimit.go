package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/cache"
	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/httperror"
)

// minuteLimiter 는 분 단위 윈도우 카운터와 한도를 묶는다.
type minuteLimiter struct {
	counter *cache.TTLCache[string, int]
	limit   int
}

func newMinuteLimiter(cfg *config.Config, limit int) *minuteLimiter {
	cacheSize := 0
	cacheTTL := time.Duration(0)
	if cfg != nil {
		cacheSize = cfg.HTTPRateLimit.CacheSize
		cacheTTL = time.Duration(cfg.HTTPRateLimit.CacheTTLSeconds) * time.Second
	}
	return &minuteLimiter{
		counter: cache.NewTTLCache[string, int](cacheSize, cacheTTL),
		limit:   limit,
	}
}

// allow 는 현재 분 윈도우의 카운터를 증가시키고 한도 이내인지 돌려준다.
// 카운터를 저장하지 못하면 요청을 막지 않는다.
func (l *minuteLimiter) allow(identity string) bool {
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("%s:%d", identity, window)

	count, ok := l.counter.Modify(key, func(current int, _ bool) int { return current + 1 })
	if !ok {
		return true
	}
	return count <= l.limit
}

func (l *minuteLimiter) reject(c *gin.Context, details map[string]any) {
	status, payload := httperror.Response(httperror.NewRateLimitExceeded(details), GetRequestID(c))
	c.AbortWithStatusJSON(status, payload)
}

// RateLimit 는 /api 경로 전체에 분 단위 요청 제한을 건다.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	limit := 0
	if cfg != nil {
		limit = cfg.HTTPRateLimit.RequestsPerMinute
	}
	limiter := newMinuteLimiter(cfg, limit)

	return func(c *gin.Context) {
		if limiter.limit <= 0 {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodOptions || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		if !limiter.allow(identity) {
			limiter.reject(c, map[string]any{
				"path":             c.Request.URL.Path,
				"identity":         identity,
				"limit_per_minute": limiter.limit,
			})
			return
		}

		c.Next()
	}
}

// LoginRateLimit 는 로그인 시도를 클라이언트 IP 기준으로 제한한다.
// 무차별 대입을 늦추는 용도라 전역 제한과 별도 카운터를 쓴다.
func LoginRateLimit(cfg *config.Config) gin.HandlerFunc {
	limit := 0
	if cfg != nil {
		limit = cfg.HTTPRateLimit.LoginPerMinute
	}
	limiter := newMinuteLimiter(cfg, limit)

	return func(c *gin.Context) {
		if limiter.limit <= 0 {
			c.Next()
			return
		}

		if !limiter.allow(clientIdentity(c)) {
			limiter.reject(c, map[string]any{
				"path":             c.Request.URL.Path,
				"limit_per_minute": limiter.limit,
			})
			return
		}

		c.Next()
	}
}

// rateLimitIdentity 는 관리자 키가 있으면 키 기준, 없으면 IP 기준 식별자를 만든다.
func rateLimitIdentity(c *gin.Context) string {
	if key := extractAPIKey(c); key != "" {
		return "key:" + hashKey(key)
	}
	return clientIdentity(c)
}

func clientIdentity(c *gin.Context) string {
	forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For"))
	if forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return "ip:" + ip
		}
	}

	if c.ClientIP() != "" {
		return "ip:" + c.ClientIP()
	}

	return "ip:unknown"
}

// hashKey 는 식별자에 원문 키가 남지 않도록 앞 16자리 해시만 쓴다.
func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	encoded := hex.EncodeToString(sum[:])
	if len(encoded) <= 16 {
		return encoded
	}
	return encoded[:16]
}

func shouldProtectPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
