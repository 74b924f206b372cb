package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

// DefaultGeminiModel 默认 Gemini 模型
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini Google Gemini 生成器
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini 创建 Gemini 生成器
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Close 关闭底层客户端
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Generate 单次同步调用，不重试、不流式
func (g *Gemini) Generate(ctx context.Context, req *entity.ProviderRequest) (string, error) {
	parts, err := geminiParts(req)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", Classify(err)
	}
	return geminiText(resp), nil
}

// geminiParts 将领域片段转换为 genai 片段
func geminiParts(req *entity.ProviderRequest) ([]genai.Part, error) {
	parts := make([]genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		switch {
		case p.InlineData != nil:
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, apperrors.Validation("Invalid inline data encoding").WithError(err)
			}
			parts = append(parts, genai.Blob{MIMEType: p.InlineData.MIMEType, Data: data})
		case p.Text != "":
			parts = append(parts, genai.Text(p.Text))
		}
	}
	return parts, nil
}

// geminiText 提取首个候选的全部文本片段
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
