package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/health"
	"github.com/Harshini-A12/Stylesense/internal/middleware"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/upload"
)

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	store session.Storage,
	saver *upload.Saver,
	checker *health.Checker,
	authHandler *AuthHandler,
	stylingHandler *StylingHandler,
	usageHandler *UsageHandler,
	metricsHandler *MetricsHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		newCORSMiddleware(cfg),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimit(cfg),
	)

	sessionAuth := middleware.SessionAuth(store, logger)
	adminAuth := middleware.AdminAPIKey(cfg, logger)

	RegisterHealthRoutes(router, cfg, checker)
	authHandler.RegisterRoutes(router, sessionAuth)
	stylingHandler.RegisterRoutes(router, sessionAuth)
	usageHandler.RegisterRoutes(router, adminAuth)
	metricsHandler.RegisterRoutes(router, adminAuth)

	// 업로드된 프로필 사진은 정적 경로로 제공한다.
	router.Static("/uploads", saver.Dir())

	return router
}

// newCORSMiddleware 는 CORS 정책을 구성한다.
// 쿠키 인증은 오리진을 명시한 경우에만 허용한다.
func newCORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-API-Key")
	corsConfig.MaxAge = 12 * time.Hour
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	return cors.New(corsConfig)
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
