package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/health"
)

// ModelConfigResponse: 모델 설정 응답입니다.
type ModelConfigResponse struct {
	ModelDefault   string  `json:"model_default"`
	ModelChat      string  `json:"model_chat"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	HTTP2Enabled   bool    `json:"http2_enabled"`
	TransportMode  string  `json:"transport_mode"`
}

// RegisterHealthRoutes: 상태 확인 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, checker *health.Checker) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness: 외부 의존성 장애로 다운 판정되지 않도록 shallow로 유지합니다.
		payload := checker.Collect(c.Request.Context(), false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := checker.Collect(c.Request.Context(), true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	router.GET("/health/models", func(c *gin.Context) {
		defaultModel := cfg.Gemini.DefaultModel

		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}

		c.JSON(http.StatusOK, ModelConfigResponse{
			ModelDefault:   defaultModel,
			ModelChat:      cfg.Gemini.ModelForTask("chat"),
			Temperature:    cfg.Gemini.TemperatureForModel(defaultModel),
			TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
			HTTP2Enabled:   cfg.HTTP.HTTP2Enabled,
			TransportMode:  transportMode,
		})
	})
}
