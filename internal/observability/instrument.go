// Package observability 为模型调用提供指标与追踪
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/domain/service"
	apperrors "gemini-chat-api/pkg/errors"
	"gemini-chat-api/pkg/metrics"
	"gemini-chat-api/pkg/tracer"
)

// instrumented 包装生成器：记录调用次数、耗时与 llm.generate span
type instrumented struct {
	next     service.Generator
	provider string
	model    string
	timeout  time.Duration
}

// Instrument 为生成器附加指标与追踪；timeout > 0 时限制单次调用时长
func Instrument(next service.Generator, provider, model string, timeout time.Duration) service.Generator {
	return &instrumented{
		next:     next,
		provider: provider,
		model:    model,
		timeout:  timeout,
	}
}

// Generate 实现 service.Generator
func (i *instrumented) Generate(ctx context.Context, req *entity.ProviderRequest) (string, error) {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", i.provider),
		attribute.String("llm.model", i.model),
		attribute.String("dispatch.mode", req.Mode.String()),
		attribute.Int("llm.parts", len(req.Parts)),
	}
	if inline := req.Inline(); inline != nil {
		attrs = append(attrs,
			attribute.String("attachment.mime", inline.MIMEType),
			attribute.Int("attachment.base64_len", len(inline.Data)),
		)
	}

	ctx, span := tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
	defer span.End()

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := i.next.Generate(ctx, req)
	metrics.LLMCallDuration.WithLabelValues(i.provider, i.model).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := apperrors.KindOf(err)
		metrics.LLMCallTotal.WithLabelValues(i.provider, i.model, string(kind)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", string(kind)))
		return "", err
	}

	metrics.LLMCallTotal.WithLabelValues(i.provider, i.model, "success").Inc()
	span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
	return text, nil
}
