package service

import (
	"context"

	"gemini-chat-api/internal/domain/entity"
)

// Generator 模型提供商的最小依赖（port）。
// 约定：返回的错误必须是 pkg/errors.AppError，Kind 表明失败类别；
// 模型未返回文本时返回空字符串与 nil 错误。
type Generator interface {
	Generate(ctx context.Context, req *entity.ProviderRequest) (string, error)
}
