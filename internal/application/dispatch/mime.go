package dispatch

import (
	"mime"
	"path/filepath"
	"strings"

	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

const (
	MIMEOctetStream = "application/octet-stream"
	MIMEPDF         = "application/pdf"
	MIMEText        = "text/plain"
	MIMEDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AudioTypes 规范化后允许的音频类型
var AudioTypes = map[string]struct{}{
	"audio/mpeg": {},
	"audio/mp3":  {},
	"audio/wav":  {},
	"audio/m4a":  {},
	"audio/webm": {},
	"audio/aac":  {},
}

// DocumentTypes 上传时允许的文档类型
var DocumentTypes = map[string]struct{}{
	MIMEPDF:  {},
	MIMEText: {},
	MIMEDocx: {},
}

// 按扩展名推断音频类型
var audioExtTypes = map[string]string{
	"m4a":  "audio/m4a",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"webm": "audio/webm",
	"aac":  "audio/aac",
}

// 上传过滤器的拒绝消息
const (
	msgOnlyImages    = "Only image files are allowed"
	msgOnlyDocuments = "Only PDF, TXT, DOCX are allowed"
)

// NormalizeAudioMIME 规范化音频 MIME 类型。
// audio/mp4 与 audio/x-m4a 统一为 audio/m4a；声明类型为空时按文件扩展名推断。
// 对已规范化的值幂等。
func NormalizeAudioMIME(declared, filename string) string {
	lower := strings.ToLower(strings.TrimSpace(declared))
	if lower == "audio/mp4" || lower == "audio/x-m4a" {
		return "audio/m4a"
	}
	if lower != "" {
		return lower
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if t, ok := audioExtTypes[ext]; ok {
		return t
	}
	return MIMEOctetStream
}

// MediaType 去掉 Content-Type 中的参数部分，例如 "text/plain; charset=utf-8"
func MediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}
	return mt
}

// FilterUpload 上传层过滤：在读取文件内容之前按声明类型拒绝。
// 音频不在上传层过滤，由 NormalizeAudioMIME 在处理阶段校验。
func FilterUpload(mode entity.Mode, declared string) error {
	mt := MediaType(declared)
	switch mode {
	case entity.ModeImage:
		if !strings.HasPrefix(mt, "image/") {
			return apperrors.FileTypeRejected(msgOnlyImages)
		}
	case entity.ModeDocument:
		if _, ok := DocumentTypes[mt]; !ok {
			return apperrors.FileTypeRejected(msgOnlyDocuments)
		}
	}
	return nil
}

// resolveMIME 返回附件最终发送给提供商的 MIME 类型
func resolveMIME(mode entity.Mode, att *entity.Attachment) (string, error) {
	if mode == entity.ModeAudio {
		mt := NormalizeAudioMIME(MediaType(att.MIMEType), att.Filename)
		if _, ok := AudioTypes[mt]; !ok {
			return "", apperrors.UnsupportedMedia("Unsupported audio type: " + mt)
		}
		return mt, nil
	}

	if err := FilterUpload(mode, att.MIMEType); err != nil {
		return "", err
	}
	return MediaType(att.MIMEType), nil
}
