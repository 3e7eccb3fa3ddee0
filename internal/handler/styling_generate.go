package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/middleware"
	stylinguc "github.com/Harshini-A12/Stylesense/internal/usecase/styling"
)

// handleGenerate: 사진과 설문을 받아 스타일링 추천을 생성합니다.
// multipart 폼으로 사진(image)과 설문 필드를 함께 받는다.
func (h *StylingHandler) handleGenerate(c *gin.Context) {
	image, err := c.FormFile("image")
	if err != nil {
		writeError(c, httperror.NewInvalidInput("No image uploaded"))
		return
	}

	req := stylinguc.GenerateRequest{
		Email:           middleware.GetUserEmail(c),
		SessionID:       middleware.GetSessionID(c),
		Gender:          c.PostForm("gender"),
		Age:             c.PostForm("age"),
		Occasion:        c.PostForm("occasion"),
		CustomOccasion:  c.PostForm("custom_occasion"),
		Budget:          c.PostForm("budget"),
		PreferredColors: c.PostForm("preferred_colors"),
		Image:           image,
	}

	result, err := h.usecase.Generate(c.Request.Context(), middleware.GetRequestID(c), req)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StylingGenerateResponse{
		SkinTone: string(result.SkinTone),
		Result:   result.Result,
		ImageURL: "/uploads/" + result.ImageName,
		Fallback: result.Fallback,
	})
}
