// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/internal/domain/entity"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version  string
	provider string
	ready    bool
}

// NewHealthHandler 创建健康检查处理器；ready 表示生成器已构建
func NewHealthHandler(version, provider string, ready bool) *HealthHandler {
	return &HealthHandler{
		version:  version,
		provider: provider,
		ready:    ready,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Root 返回服务能力说明
func (h *HealthHandler) Root(c *gin.Context) {
	endpoints := make([]string, 0, len(entity.Modes))
	for _, m := range entity.Modes {
		endpoints = append(endpoints, m.Endpoint())
	}
	c.String(http.StatusOK, "Gemini API is running. Endpoints: %s", strings.Join(endpoints, ", "))
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.ready {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "not_ready", Provider: h.provider})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Provider: h.provider})
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
