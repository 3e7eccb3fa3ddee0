package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/httperror"
	"github.com/Harshini-A12/Stylesense/internal/middleware"
)

// writeError: httperror 규약에 맞춰 에러 응답을 작성합니다.
func writeError(c *gin.Context, err error) {
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// bindJSON: 요청 본문을 파싱하고, 실패하면 422 응답까지 작성합니다.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		writeError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}
