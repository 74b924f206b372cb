package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/internal/interfaces/http/dto"
	"gemini-chat-api/pkg/logger"
)

// ErrorJSON 兜底错误渲染：处理链未写响应时，将 c.Errors 或错误状态码转换为 {error}
func ErrorJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if last := c.Errors.Last(); last != nil {
			logger.Debug(c.Request.Context(), "rendering handler error", "error", last.Error())
			dto.AppError(c, last.Err)
			return
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			dto.Error(c, status, http.StatusText(status))
		}
	}
}
