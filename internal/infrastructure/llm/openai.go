package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

// DefaultOpenAIModel 默认 OpenAI 兼容模型
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI OpenAI 兼容接口的生成器，支持文本、图片与可抽取文本的文档
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI 创建 OpenAI 兼容生成器
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Generate 单次同步调用
func (o *OpenAI) Generate(ctx context.Context, req *entity.ProviderRequest) (string, error) {
	msg, err := openAIMessage(req)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// openAIMessage 构建用户消息；图片以 data URL 形式发送，文档先抽取为文本
func openAIMessage(req *entity.ProviderRequest) (openai.ChatCompletionMessage, error) {
	inline := req.Inline()
	if inline == nil {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Text(),
		}, nil
	}

	if req.Mode == entity.ModeDocument {
		text, err := documentText(inline)
		if err != nil {
			return openai.ChatCompletionMessage{}, err
		}
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Text() + "\n\n" + text,
		}, nil
	}

	if !strings.HasPrefix(inline.MIMEType, "image/") {
		return openai.ChatCompletionMessage{}, apperrors.UnsupportedMedia(
			fmt.Sprintf("Unsupported media type for openai provider: %s", inline.MIMEType))
	}

	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Text()},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", inline.MIMEType, inline.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	}, nil
}
