package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/pkg/logger"
	"gemini-chat-api/pkg/textutil"
)

// maxErrorBodyChars 非 JSON 响应体截断长度
const maxErrorBodyChars = 500

// File 用户选择的待上传文件
type File struct {
	Name string
	Type string
	Data []byte
}

// LoadFile 读取本地文件，类型按扩展名推断，未知时为空
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{
		Name: filepath.Base(path),
		Type: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data: data,
	}, nil
}

// Meta 文件元信息
func (f *File) Meta() *entity.FileMeta {
	if f == nil {
		return nil
	}
	return &entity.FileMeta{Name: f.Name, Type: f.Type}
}

// Reply 服务端响应体
type Reply struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// Text 展示文本：结果优先，其次错误，都为空时为 "No response"
func (r *Reply) Text() string {
	switch {
	case r.Result != "":
		return r.Result
	case r.Error != "":
		return r.Error
	default:
		return "No response"
	}
}

// Transport 调用生成 API 的 HTTP 客户端
type Transport struct {
	baseURL string
	http    *http.Client
}

// NewTransport 创建传输层；httpClient 为 nil 时使用不设超时的默认客户端
func NewTransport(baseURL string, httpClient *http.Client) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Send 发送一次生成请求。收到任意 HTTP 响应即返回 Reply，传输失败时返回 error。
func (t *Transport) Send(ctx context.Context, mode entity.Mode, prompt string, file *File) (*Reply, error) {
	req, err := t.newRequest(ctx, mode, prompt, file)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "generation response received",
		"mode", mode.String(),
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return decodeReply(resp)
}

func (t *Transport) newRequest(ctx context.Context, mode entity.Mode, prompt string, file *File) (*http.Request, error) {
	url := t.baseURL + mode.Endpoint()

	if mode == entity.ModeText {
		body, err := json.Marshal(map[string]string{"prompt": prompt})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, mode.FileField(), file.Name))
	if file.Type != "" {
		h.Set("Content-Type", file.Type)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

// decodeReply 仅在 Content-Type 声明 JSON 时解析，否则将截断后的原始文本作为错误
func decodeReply(resp *http.Response) (*Reply, error) {
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var reply Reply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return nil, fmt.Errorf("invalid JSON response: %w", err)
		}
		return &reply, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Reply{Error: textutil.TruncateRunes(string(raw), maxErrorBodyChars)}, nil
}
