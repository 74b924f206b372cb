package llm

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

// documentText 抽取文档的纯文本，供不支持内联文件的提供商使用。
// 仅支持 text/plain 与 application/pdf。
func documentText(inline *entity.InlineData) (string, error) {
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return "", apperrors.Validation("Invalid inline data encoding").WithError(err)
	}

	switch strings.ToLower(inline.MIMEType) {
	case "text/plain":
		return string(data), nil
	case "application/pdf":
		return pdfText(data)
	default:
		return "", apperrors.UnsupportedMedia("Unsupported media type for openai provider: " + inline.MIMEType)
	}
}

// pdfText 逐页抽取文本，跳过无法解析或无文本的页
func pdfText(data []byte) (string, error) {
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Validation("Invalid PDF document").WithError(err)
	}

	var sb strings.Builder
	for i := 1; i <= rdr.NumPage(); i++ {
		txt, err := rdr.Page(i).GetPlainText(nil)
		if err != nil {
			continue
		}
		txt = strings.TrimSpace(txt)
		if txt == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Page " + strconv.Itoa(i) + "\n" + txt)
	}
	return sb.String(), nil
}
