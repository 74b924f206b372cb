// Package dispatch 实现多模态请求的校验、MIME 规范化与提供商调度
package dispatch

import (
	"context"
	"fmt"
	"time"

	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/domain/service"
	apperrors "gemini-chat-api/pkg/errors"
	"gemini-chat-api/pkg/logger"
	"gemini-chat-api/pkg/metrics"
)

// Service 调度服务。无状态，可被并发调用。
type Service struct {
	generator      service.Generator
	maxUploadBytes int64
}

// NewService 创建调度服务
func NewService(generator service.Generator, maxUploadBytes int64) *Service {
	return &Service{
		generator:      generator,
		maxUploadBytes: maxUploadBytes,
	}
}

// MaxUploadBytes 单个附件大小上限
func (s *Service) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// GenerateText 文本生成，提示词原样转发
func (s *Service) GenerateText(ctx context.Context, prompt string) (*entity.GenerationResult, error) {
	return s.Generate(ctx, &entity.GenerationRequest{Mode: entity.ModeText, Prompt: prompt})
}

// GenerateFromImage 图片理解
func (s *Service) GenerateFromImage(ctx context.Context, prompt string, att *entity.Attachment) (*entity.GenerationResult, error) {
	return s.Generate(ctx, &entity.GenerationRequest{Mode: entity.ModeImage, Prompt: prompt, Attachment: att})
}

// GenerateFromAudio 音频转写与摘要
func (s *Service) GenerateFromAudio(ctx context.Context, prompt string, att *entity.Attachment) (*entity.GenerationResult, error) {
	return s.Generate(ctx, &entity.GenerationRequest{Mode: entity.ModeAudio, Prompt: prompt, Attachment: att})
}

// GenerateFromDocument 文档摘要
func (s *Service) GenerateFromDocument(ctx context.Context, prompt string, att *entity.Attachment) (*entity.GenerationResult, error) {
	return s.Generate(ctx, &entity.GenerationRequest{Mode: entity.ModeDocument, Prompt: prompt, Attachment: att})
}

// Generate 校验请求、构建提供商请求并执行一次同步调用
func (s *Service) Generate(ctx context.Context, req *entity.GenerationRequest) (result *entity.GenerationResult, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = string(apperrors.KindOf(err))
		}
		metrics.GenerationTotal.WithLabelValues(req.Mode.String(), status).Inc()
		metrics.GenerationDuration.WithLabelValues(req.Mode.String()).Observe(time.Since(start).Seconds())
	}()

	normalized, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, logger.ModeKey, req.Mode.String())
	providerReq := entity.BuildProviderRequest(normalized)

	text, err := s.generator.Generate(ctx, providerReq)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		logger.Error(ctx, "provider call failed", err,
			"kind", appErr.Kind,
			"attachment_bytes", normalized.Attachment.Size(),
		)
		return nil, surface(req.Mode, appErr)
	}

	if text == "" {
		text = entity.NoResponseText
	}
	return &entity.GenerationResult{Mode: req.Mode, Text: text}, nil
}

// prepare 校验并规范化请求，返回新的请求值，不修改入参
func (s *Service) prepare(req *entity.GenerationRequest) (*entity.GenerationRequest, error) {
	if !req.Mode.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown mode: %q", req.Mode))
	}

	if !req.Mode.RequiresAttachment() {
		if req.Prompt == "" {
			return nil, apperrors.Validation("Prompt is required")
		}
		return &entity.GenerationRequest{Mode: req.Mode, Prompt: req.Prompt}, nil
	}

	att := req.Attachment
	if att == nil {
		return nil, apperrors.FileRequired(MissingFileMessage(req.Mode))
	}
	if s.maxUploadBytes > 0 && int64(att.Size()) > s.maxUploadBytes {
		return nil, apperrors.SizeLimit(fmt.Sprintf("File too large: max %d bytes", s.maxUploadBytes))
	}

	mt, err := resolveMIME(req.Mode, att)
	if err != nil {
		return nil, err
	}
	metrics.UploadSize.WithLabelValues(req.Mode.String()).Observe(float64(att.Size()))

	return &entity.GenerationRequest{
		Mode:   req.Mode,
		Prompt: promptOrDefault(req.Mode, req.Prompt),
		Attachment: &entity.Attachment{
			Data:     att.Data,
			MIMEType: mt,
			Filename: att.Filename,
		},
	}, nil
}

// surface 将提供商错误转换为对外错误；上游失败附加模式说明
func surface(mode entity.Mode, appErr *apperrors.AppError) *apperrors.AppError {
	if appErr.Kind != apperrors.KindUpstream {
		return appErr
	}
	return apperrors.Upstream(appErr.Err, failurePrefix(mode)+appErr.Message)
}
