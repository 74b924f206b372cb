package dispatch

import (
	"strings"

	"gemini-chat-api/internal/domain/entity"
)

// 各模式的默认提示词
const (
	DefaultImagePrompt    = "Describe this image briefly."
	DefaultAudioPrompt    = "Transcribe and summarize this audio."
	DefaultDocumentPrompt = "Summarize this document point-by-point."
)

// DefaultPrompt 返回模式的默认提示词，文本模式没有默认值
func DefaultPrompt(mode entity.Mode) string {
	switch mode {
	case entity.ModeImage:
		return DefaultImagePrompt
	case entity.ModeAudio:
		return DefaultAudioPrompt
	case entity.ModeDocument:
		return DefaultDocumentPrompt
	default:
		return ""
	}
}

// promptOrDefault 空白提示词回落到模式默认值
func promptOrDefault(mode entity.Mode, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return DefaultPrompt(mode)
	}
	return prompt
}

// MissingFileMessage 缺少附件时的错误消息
func MissingFileMessage(mode entity.Mode) string {
	switch mode {
	case entity.ModeImage:
		return "Image file is required"
	case entity.ModeAudio:
		return "Audio file is required"
	default:
		return "Document file is required"
	}
}

// failurePrefix 上游失败时附加在提供商消息前的说明
func failurePrefix(mode entity.Mode) string {
	switch mode {
	case entity.ModeText:
		return "Failed to generate text: "
	case entity.ModeImage:
		return "Failed to generate image description: "
	case entity.ModeDocument:
		return "Failed to process document: "
	default:
		return ""
	}
}
