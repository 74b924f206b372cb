// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/pkg/errors"
)

// ResultResponse 生成成功响应
type ResultResponse struct {
	Result string `json:"result"`
}

// ErrorResponse 错误响应，所有失败路径统一使用
type ErrorResponse struct {
	Error string `json:"error"`
}

// Result 返回 200 生成结果
func Result(c *gin.Context, text string) {
	c.JSON(http.StatusOK, ResultResponse{Result: text})
}

// Error 返回错误响应并终止后续处理
func Error(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{Error: message})
}

// AppError 按错误分类选择状态码
func AppError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	Error(c, appErr.HTTPStatus, appErr.Message)
}
