// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gemini-chat-api/internal/application/dispatch"
	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/interfaces/http/dto"
	"gemini-chat-api/internal/interfaces/http/handler"
	"gemini-chat-api/internal/interfaces/http/middleware"
	apperrors "gemini-chat-api/pkg/errors"
)

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	svc    *dispatch.Service
}

// New 创建新的路由器
func New(cfg *config.Config, svc *dispatch.Service) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine: engine,
		cfg:    cfg,
		svc:    svc,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorJSON())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.cfg.Observability.Metrics.Path))
	}

	r.engine.Use(middleware.AccessLog())
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	healthHandler := handler.NewHealthHandler(r.cfg.App.Version, r.cfg.LLM.Provider, r.svc != nil)

	r.engine.GET("/", healthHandler.Root)
	r.engine.GET("/health", healthHandler.Health)
	r.engine.GET("/ready", healthHandler.Ready)
	r.engine.GET("/live", healthHandler.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.engine.NoRoute(func(c *gin.Context) {
		dto.AppError(c, apperrors.NotFound())
	})
	r.engine.NoMethod(func(c *gin.Context) {
		dto.AppError(c, apperrors.MethodNotAllowed())
	})

	if r.svc == nil {
		return
	}

	gen := handler.NewGenerateHandler(r.svc)
	limit := middleware.UploadLimit(r.svc.MaxUploadBytes())

	r.engine.POST(entity.ModeText.Endpoint(), limit, gen.GenerateText)
	r.engine.POST(entity.ModeImage.Endpoint(), limit, gen.GenerateFromImage)
	r.engine.POST(entity.ModeAudio.Endpoint(), limit, gen.GenerateFromAudio)
	r.engine.POST(entity.ModeDocument.Endpoint(), limit, gen.GenerateFromDocument)
}
