package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/metrics"
)

// MetricsHandler 는 런타임 카운터 API 핸들러다.
type MetricsHandler struct {
	metrics *metrics.Store
}

// NewMetricsHandler 는 메트릭 핸들러를 생성한다.
func NewMetricsHandler(metricsStore *metrics.Store) *MetricsHandler {
	return &MetricsHandler{metrics: metricsStore}
}

// RegisterRoutes 는 메트릭 라우트를 등록한다. 관리용 API 키가 필요하다.
func (h *MetricsHandler) RegisterRoutes(router *gin.Engine, adminAuth gin.HandlerFunc) {
	group := router.Group("/api/metrics")
	group.Use(adminAuth)
	group.GET("", h.handleMetrics)
}

func (h *MetricsHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
