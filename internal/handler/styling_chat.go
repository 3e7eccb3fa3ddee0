package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/middleware"
	stylinguc "github.com/Harshini-A12/Stylesense/internal/usecase/styling"
)

// handleChat: 최근 추천을 맥락으로 후속 질문에 답합니다.
func (h *StylingHandler) handleChat(c *gin.Context) {
	var req StylingChatRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.usecase.Chat(c.Request.Context(), middleware.GetRequestID(c), stylinguc.ChatRequest{
		SessionID: middleware.GetSessionID(c),
		Message:   req.Message,
	})
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StylingChatResponse{
		Response:     result.Reply,
		MessageCount: result.MessageCount,
	})
}
