// Package client 命令行聊天客户端的会话状态与提交逻辑
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gemini-chat-api/internal/client/history"
	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/pkg/logger"
	"gemini-chat-api/pkg/textutil"
)

const (
	// ThinkingText 请求进行中的占位消息
	ThinkingText = "Thinking…"
	// NoFileLabel 未选择文件时的文件名标签
	NoFileLabel = "No file"
	// NoResultText 回放时结果为空的占位
	NoResultText = "(no result)"
	// previewChars 历史结果预览长度
	previewChars = 280
)

var (
	// ErrBusy 已有请求在进行中
	ErrBusy = errors.New("a request is already in flight")
	// ErrFileRequired 非文本模式未选择文件
	ErrFileRequired = errors.New("Please choose a file first.")
)

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message 会话中的一条消息
type Message struct {
	Sender Sender
	Text   string
}

// Session 单用户聊天会话。同一时刻最多一个请求在进行中。
type Session struct {
	transport *Transport
	history   *history.Store
	now       func() time.Time

	mu        sync.Mutex
	mode      entity.Mode
	prompt    string
	file      *File
	fileLabel string
	busy      bool
	messages  []Message
}

// NewSession 创建会话，初始为文本模式
func NewSession(transport *Transport, hist *history.Store) *Session {
	return &Session{
		transport: transport,
		history:   hist,
		now:       time.Now,
		mode:      entity.ModeText,
		fileLabel: NoFileLabel,
	}
}

// Mode 当前模式
func (s *Session) Mode() entity.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode 切换模式；已选择的文件保留
func (s *Session) SetMode(m entity.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown mode: %q", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.mode = m
	if s.file == nil {
		s.fileLabel = NoFileLabel
	}
	return nil
}

// Hint 当前模式的提示文本
func (s *Session) Hint() string {
	return hints[s.Mode()]
}

// Accept 当前模式可选择的文件类型
func (s *Session) Accept() string {
	return accepts[s.Mode()]
}

// Templates 当前模式的模板列表
func (s *Session) Templates() []Template {
	return TemplatesFor(s.Mode())
}

// ApplyTemplate 用模板文本覆盖提示词；空值不做任何修改
func (s *Session) ApplyTemplate(value string) {
	if value == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return
	}
	s.prompt = value
}

// Prompt 当前提示词
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// SetPrompt 设置提示词
func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return
	}
	s.prompt = p
}

// ChooseFile 选择文件，nil 表示取消选择
func (s *Session) ChooseFile(f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.file = f
	s.fileLabel = NoFileLabel
	if f != nil {
		s.fileLabel = f.Name
	}
	return nil
}

// FileName 文件名标签
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileLabel
}

// Busy 是否有请求在进行中
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Messages 返回消息列表副本
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Submit 提交当前输入。
// 文本模式下提示词与文件都为空时不做任何事；收到 HTTP 响应（无论成功与否）即写入历史。
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	mode := s.mode
	prompt := strings.TrimSpace(s.prompt)
	file := s.file

	if prompt != "" {
		s.appendLocked(SenderUser, prompt)
	}
	if prompt == "" && mode == entity.ModeText && file == nil {
		s.mu.Unlock()
		return nil
	}

	s.busy = true
	pending := s.appendLocked(SenderBot, ThinkingText)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.prompt = ""
		s.mu.Unlock()
	}()

	if mode.RequiresAttachment() && file == nil {
		s.replace(pending, "Error: "+ErrFileRequired.Error())
		return ErrFileRequired
	}

	reply, err := s.transport.Send(ctx, mode, prompt, file)
	if err != nil {
		s.replace(pending, "Error: "+err.Error())
		return err
	}

	text := reply.Text()
	s.replace(pending, text)

	entry := entity.HistoryEntry{
		TS:       s.now().UnixMilli(),
		Mode:     mode,
		Prompt:   prompt,
		FileMeta: file.Meta(),
		Result:   text,
	}
	if _, err := s.history.Add(ctx, entry); err != nil {
		logger.Warn(ctx, "failed to save history", "error", err.Error())
	}
	return nil
}

// History 读取历史，最新在前
func (s *Session) History(ctx context.Context) []entity.HistoryEntry {
	return s.history.Load(ctx)
}

// ClearHistory 清空历史
func (s *Session) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

// Replay 回放历史条目：恢复模式与提示词，追加保存的结果，不发起请求
func (s *Session) Replay(ctx context.Context, index int) error {
	entries := s.history.Load(ctx)
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("no history entry at %d", index)
	}
	e := entries[index]

	// 回放不发起请求，请求进行中也允许
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = e.Mode
	s.prompt = e.Prompt

	result := e.Result
	if result == "" {
		result = NoResultText
	}
	s.appendLocked(SenderBot, result)

	s.fileLabel = NoFileLabel
	if e.FileMeta != nil {
		s.fileLabel = e.FileMeta.Name
	}
	return nil
}

func (s *Session) appendLocked(sender Sender, text string) int {
	s.messages = append(s.messages, Message{Sender: sender, Text: text})
	return len(s.messages) - 1
}

// replace 原位替换占位消息
func (s *Session) replace(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[index].Text = text
}

// Preview 历史结果预览，超出长度时以省略号结尾
func Preview(result string) string {
	return textutil.Ellipsize(result, previewChars)
}

// FormatEntry 单行展示历史条目
func FormatEntry(e entity.HistoryEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "• %s • %s", e.Time().Local().Format("2006-01-02 15:04:05"), strings.ToUpper(e.Mode.String()))
	if e.FileMeta != nil {
		typ := e.FileMeta.Type
		if typ == "" {
			typ = "file"
		}
		fmt.Fprintf(&sb, " • %s (%s)", e.FileMeta.Name, typ)
	}
	prompt := e.Prompt
	if prompt == "" {
		prompt = "(empty)"
	}
	fmt.Fprintf(&sb, "\n  Prompt: %s\n  Result: %s", prompt, Preview(e.Result))
	return sb.String()
}
