package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/usage"
)

// UsageResponse: 기간 합산 토큰 사용량입니다.
type UsageResponse struct {
	InputTokens     int64  `json:"input_tokens"`
	OutputTokens    int64  `json:"output_tokens"`
	TotalTokens     int64  `json:"total_tokens"`
	ReasoningTokens int64  `json:"reasoning_tokens"`
	Model           string `json:"model"`
}

// DailyUsageResponse: 하루치 토큰 사용량입니다.
type DailyUsageResponse struct {
	UsageDate       string `json:"usage_date"`
	InputTokens     int64  `json:"input_tokens"`
	OutputTokens    int64  `json:"output_tokens"`
	TotalTokens     int64  `json:"total_tokens"`
	ReasoningTokens int64  `json:"reasoning_tokens"`
	RequestCount    int64  `json:"request_count"`
	Model           string `json:"model"`
}

// UsageListResponse: 일자별 목록과 합계입니다.
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
	Model             string               `json:"model"`
}

// UsageHandler: 토큰 사용량 조회 API 핸들러입니다.
type UsageHandler struct {
	cfg    *config.Config
	store  usage.Store
	logger *slog.Logger
}

// NewUsageHandler: 사용량 핸들러를 생성합니다.
func NewUsageHandler(cfg *config.Config, store usage.Store, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes: /api/usage 아래 라우트를 등록합니다. 관리용 API 키 인증을 거칩니다.
func (h *UsageHandler) RegisterRoutes(router *gin.Engine, adminAuth gin.HandlerFunc) {
	group := router.Group("/api/usage")
	group.Use(adminAuth)
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
	group.GET("/total", h.handleTotal)
}

func (h *UsageHandler) handleDaily(c *gin.Context) {
	row, err := h.store.GetDailyUsage(c.Request.Context(), time.Time{})
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildDailyResponse(row))
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	days, ok := parseDays(c, 7)
	if !ok {
		return
	}

	rows, err := h.store.GetRecentUsage(c.Request.Context(), days)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildUsageListResponse(rows))
}

func (h *UsageHandler) handleTotal(c *gin.Context) {
	days, ok := parseDays(c, 30)
	if !ok {
		return
	}

	total, err := h.store.GetTotalUsage(c.Request.Context(), days)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, UsageResponse{
		InputTokens:     total.InputTokens,
		OutputTokens:    total.OutputTokens,
		TotalTokens:     total.TotalTokens(),
		ReasoningTokens: total.ReasoningTokens,
		Model:           h.cfg.Gemini.DefaultModel,
	})
}

func (h *UsageHandler) buildDailyResponse(row *usage.DailyUsage) DailyUsageResponse {
	if row == nil {
		// 아직 기록이 없는 날은 오늘 날짜의 0 건 응답을 돌려준다.
		row = &usage.DailyUsage{UsageDate: time.Now()}
	}
	return dailyUsageRow(*row, h.cfg.Gemini.DefaultModel)
}

func (h *UsageHandler) buildUsageListResponse(rows []usage.DailyUsage) UsageListResponse {
	model := h.cfg.Gemini.DefaultModel
	response := UsageListResponse{
		Usages: make([]DailyUsageResponse, 0, len(rows)),
		Model:  model,
	}

	for _, row := range rows {
		response.Usages = append(response.Usages, dailyUsageRow(row, model))
		response.TotalInputTokens += row.InputTokens
		response.TotalOutputTokens += row.OutputTokens
		response.TotalTokens += row.TotalTokens()
		response.TotalRequestCount += row.RequestCount
	}

	return response
}

func dailyUsageRow(row usage.DailyUsage, model string) DailyUsageResponse {
	return DailyUsageResponse{
		UsageDate:       row.UsageDate.Format("2006-01-02"),
		InputTokens:     row.InputTokens,
		OutputTokens:    row.OutputTokens,
		TotalTokens:     row.TotalTokens(),
		ReasoningTokens: row.ReasoningTokens,
		RequestCount:    row.RequestCount,
		Model:           model,
	}
}

func parseDays(c *gin.Context, defaultDays int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput("days must be a positive integer"))
		return 0, false
	}
	return parsed, true
}

func (h *UsageHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("usage_request_failed", "err", err)
}
