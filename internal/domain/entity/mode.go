// Package entity 定义领域实体
package entity

import "fmt"

// Mode 生成模式，决定校验规则、可接受的 MIME 集合与目标路由
type Mode string

const (
	ModeText     Mode = "text"
	ModeImage    Mode = "image"
	ModeAudio    Mode = "audio"
	ModeDocument Mode = "document"
)

// Modes 全部模式，按界面展示顺序
var Modes = []Mode{ModeText, ModeImage, ModeAudio, ModeDocument}

// ParseMode 解析模式字符串
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode: %q", s)
	}
	return m, nil
}

// Valid 是否为已知模式
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeImage, ModeAudio, ModeDocument:
		return true
	}
	return false
}

// RequiresAttachment 非文本模式必须携带一个附件
func (m Mode) RequiresAttachment() bool {
	return m != ModeText
}

// FileField 多部分表单中的文件字段名，文本模式为空
func (m Mode) FileField() string {
	if m == ModeText {
		return ""
	}
	return string(m)
}

// Endpoint 模式对应的服务端路由
func (m Mode) Endpoint() string {
	switch m {
	case ModeImage:
		return "/generate-from-image"
	case ModeAudio:
		return "/generate-from-audio"
	case ModeDocument:
		return "/generate-from-document"
	default:
		return "/generate-text"
	}
}

// String 实现 fmt.Stringer
func (m Mode) String() string {
	return string(m)
}
