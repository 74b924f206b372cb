// Package llm 提供模型提供商适配器
package llm

import (
	"context"
	"fmt"
	"strings"

	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/service"
	"gemini-chat-api/internal/observability"
)

// NewGenerator 按配置创建生成器，返回值已带指标与追踪
func NewGenerator(ctx context.Context, cfg *config.LLMConfig) (service.Generator, func(), error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	noop := func() {}

	switch provider {
	case "gemini", "google", "":
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, noop, err
		}
		return observability.Instrument(g, "gemini", g.model, cfg.Timeout), func() { _ = g.Close() }, nil
	case "openai":
		o, err := NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, noop, err
		}
		return observability.Instrument(o, "openai", o.model, cfg.Timeout), noop, nil
	case "dummy":
		return observability.Instrument(NewDummy(), "dummy", "echo", cfg.Timeout), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
