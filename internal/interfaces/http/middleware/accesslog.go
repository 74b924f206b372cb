package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/pkg/logger"
)

// AccessLog 请求日志
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes_in", c.Request.ContentLength,
		}
		if c.Writer.Status() >= 500 {
			logger.Warn(ctx, "request failed", args...)
			return
		}
		logger.Info(ctx, "request completed", args...)
	}
}
