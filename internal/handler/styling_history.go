package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/middleware"
)

// handleHistory: 로그인한 사용자의 최근 추천 이력을 조회합니다.
func (h *StylingHandler) handleHistory(c *gin.Context) {
	limit, ok := parseLimit(c, 20)
	if !ok {
		return
	}

	records, err := h.usecase.History(c.Request.Context(), middleware.GetUserEmail(c), limit)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StylingHistoryResponse{History: records})
}

func parseLimit(c *gin.Context, defaultLimit int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput("limit must be a positive integer"))
		return 0, false
	}
	return parsed, true
}
