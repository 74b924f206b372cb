//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/interfaces/http/router"
)

// GeneratorSet 提供商适配器集合
var GeneratorSet = wire.NewSet(
	ProvideGenerator,
)

// RouterSet 调度服务与路由器集合
var RouterSet = wire.NewSet(
	ProvideDispatchService,
	ProvideRouter,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		GeneratorSet,
		RouterSet,
	)
	return nil, nil, nil
}
