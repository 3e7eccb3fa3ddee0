package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/config"
	stylingdomain "github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/gemini"
	"github.com/Harshini-A12/Stylesense/internal/guard"
	"github.com/Harshini-A12/Stylesense/internal/history"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/skintone"
	"github.com/Harshini-A12/Stylesense/internal/upload"
	stylinguc "github.com/Harshini-A12/Stylesense/internal/usecase/styling"
)

// StylingHandler: 스타일링 API 핸들러입니다.
type StylingHandler struct {
	usecase *stylinguc.Service
	logger  *slog.Logger
}

// NewStylingHandler: 스타일링 핸들러를 생성합니다.
func NewStylingHandler(
	cfg *config.Config,
	client gemini.LLM,
	injectionGuard guard.Guard,
	store session.Storage,
	catalog *stylingdomain.Catalog,
	prompts *stylingdomain.Prompts,
	detector *skintone.Detector,
	saver *upload.Saver,
	historyRepo *history.Repository,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *StylingHandler {
	return &StylingHandler{
		usecase: stylinguc.New(cfg, client, injectionGuard, store, catalog, prompts, detector, saver, historyRepo, metricsStore, logger),
		logger:  logger,
	}
}

// RegisterRoutes: 스타일링 라우트를 등록합니다. 전부 세션 인증을 거칩니다.
func (h *StylingHandler) RegisterRoutes(router *gin.Engine, sessionAuth gin.HandlerFunc) {
	group := router.Group("/api/styling")
	group.Use(sessionAuth)
	group.POST("", h.handleGenerate)
	group.POST("/chat", h.handleChat)
	group.GET("/last", h.handleLast)

	router.GET("/api/history", sessionAuth, h.handleHistory)
}

func (h *StylingHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("styling_request_failed", "err", err)
}
