// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/internal/interfaces/http/dto"
	"gemini-chat-api/pkg/errors"
	"gemini-chat-api/pkg/logger"
)

// Recovery Panic 恢复中间件，返回统一的 JSON 错误体
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				dto.AppError(c, errors.Internal())
			}
		}()

		c.Next()
	}
}
