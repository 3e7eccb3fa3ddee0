package handler

import (
	stylingdomain "github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/history"
)

// StylingGenerateResponse: 스타일링 생성 응답입니다.
type StylingGenerateResponse struct {
	SkinTone string                       `json:"skin_tone"`
	Result   stylingdomain.Recommendation `json:"result"`
	ImageURL string                       `json:"image_url"`
	Fallback bool                         `json:"fallback"`
}

// StylingChatRequest: 후속 질문 요청 본문입니다.
type StylingChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// StylingChatResponse: 후속 질문 응답입니다.
type StylingChatResponse struct {
	Response     string `json:"response"`
	MessageCount int    `json:"message_count"`
}

// StylingHistoryResponse: 추천 이력 응답입니다.
type StylingHistoryResponse struct {
	History []history.Record `json:"history"`
}
