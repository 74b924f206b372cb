package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead multipart 边界与表单字段的额外预算
const multipartOverhead int64 = 1 << 20

// UploadLimit 限制请求体大小，超限时读取返回 *http.MaxBytesError
func UploadLimit(maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxUploadBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+multipartOverhead)
		}
		c.Next()
	}
}
