package dto

import (
	"github.com/gin-gonic/gin"
)

// GenerateTextRequest 文本生成请求
type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
}

// BindGenerateText 宽松解析文本请求；请求体缺失或格式错误时视为空提示词
func BindGenerateText(c *gin.Context) GenerateTextRequest {
	var req GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return GenerateTextRequest{}
	}
	return req
}
