package llm

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	apperrors "gemini-chat-api/pkg/errors"
)

// 无结构化状态码时的关键词兜底规则
var (
	unsupportedMediaRe = regexp.MustCompile(`(?i)Only audio files|Unsupported audio type`)
	invalidRequestRe   = regexp.MustCompile(`(?i)Invalid|unsupported|exceeds|max|too large`)
)

// Classify 将提供商错误转换为带分类的 AppError。
// 优先使用提供商返回的 HTTP 状态码，取不到时才按消息关键词判断。
func Classify(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := providerMessage(err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Upstream(err, msg)
	}

	if status, ok := providerStatus(err); ok {
		return classifyStatus(err, status, msg)
	}
	return ClassifyMessage(err, msg)
}

// classifyStatus 按提供商 HTTP 状态码分类
func classifyStatus(err error, status int, msg string) *apperrors.AppError {
	switch {
	case status == http.StatusRequestEntityTooLarge:
		return apperrors.SizeLimit(msg).WithError(err)
	case status == http.StatusUnsupportedMediaType:
		return apperrors.UnsupportedMedia(msg).WithError(err)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.Validation(msg).WithError(err)
	default:
		return apperrors.Upstream(err, msg)
	}
}

// ClassifyMessage 关键词兜底分类
func ClassifyMessage(err error, msg string) *apperrors.AppError {
	switch {
	case unsupportedMediaRe.MatchString(msg):
		return apperrors.UnsupportedMedia(msg).WithError(err)
	case invalidRequestRe.MatchString(msg):
		return apperrors.Validation(msg).WithError(err)
	default:
		return apperrors.Upstream(err, msg)
	}
}

// providerStatus 提取提供商错误中的 HTTP 状态码
func providerStatus(err error) (int, bool) {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code > 0 {
		return gErr.Code, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

// providerMessage 提取提供商错误中面向用户的消息
func providerMessage(err error) string {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Message != "" {
		return gErr.Message
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
