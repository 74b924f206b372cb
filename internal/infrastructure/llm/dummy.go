package llm

import (
	"context"
	"fmt"
	"sync"

	"gemini-chat-api/internal/domain/entity"
)

// Dummy 离线生成器：回显提示词，用于本地联调与测试
type Dummy struct {
	mu    sync.Mutex
	calls []*entity.ProviderRequest

	// Reply 非空时固定返回该文本
	Reply string
	// Err 非空时返回该错误
	Err error
}

// NewDummy 创建离线生成器
func NewDummy() *Dummy {
	return &Dummy{}
}

// Generate 记录请求并返回回显文本
func (d *Dummy) Generate(_ context.Context, req *entity.ProviderRequest) (string, error) {
	d.mu.Lock()
	d.calls = append(d.calls, req)
	d.mu.Unlock()

	if d.Err != nil {
		return "", d.Err
	}
	if d.Reply != "" {
		return d.Reply, nil
	}

	out := "Echo: " + req.Text()
	if inline := req.Inline(); inline != nil {
		out += fmt.Sprintf(" [%s, %d base64 chars]", inline.MIMEType, len(inline.Data))
	}
	return out, nil
}

// Calls 返回已记录的请求副本
func (d *Dummy) Calls() []*entity.ProviderRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*entity.ProviderRequest, len(d.calls))
	copy(out, d.calls)
	return out
}
