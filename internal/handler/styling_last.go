package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/middleware"
	"github.com/Harshini-A12/Stylesense/internal/session"
)

// handleLast: 세션의 마지막 추천 결과를 조회합니다.
// 결과 페이지가 새로고침 때 다시 불러 쓴다.
func (h *StylingHandler) handleLast(c *gin.Context) {
	last, err := h.usecase.LastStyling(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		if !errors.Is(err, session.ErrNoLastStyling) {
			h.logError(err)
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, last)
}
