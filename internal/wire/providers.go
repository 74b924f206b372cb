package wire

import (
	"context"

	"gemini-chat-api/internal/application/dispatch"
	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/service"
	"gemini-chat-api/internal/infrastructure/llm"
	"gemini-chat-api/internal/interfaces/http/router"
	"gemini-chat-api/pkg/logger"
)

// ProvideGenerator 按配置构建提供商生成器
func ProvideGenerator(ctx context.Context, cfg *config.Config) (service.Generator, func(), error) {
	gen, cleanup, err := llm.NewGenerator(ctx, &cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "llm provider ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return gen, cleanup, nil
}

// ProvideDispatchService 提供调度服务
func ProvideDispatchService(gen service.Generator, cfg *config.Config) *dispatch.Service {
	return dispatch.NewService(gen, cfg.Server.HTTP.MaxUploadBytes)
}

// ProvideRouter 提供 HTTP 路由器
func ProvideRouter(cfg *config.Config, svc *dispatch.Service) *router.Router {
	return router.New(cfg, svc)
}
