package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/pkg/metrics"
)

// Metrics Prometheus 指标采集中间件；skipPath 通常为指标端点本身
func Metrics(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method

		c.Next()

		// 未命中路由统一归为一个标签，避免路径基数膨胀
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if reqSize := float64(c.Request.ContentLength); reqSize > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(reqSize)
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if respSize := float64(c.Writer.Size()); respSize > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(respSize)
		}
	}
}
