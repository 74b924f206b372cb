package entity

// NoResponseText 模型未返回文本时的兜底结果
const NoResponseText = "No response text available."

// GenerationRequest 一次生成请求：提示词与至多一个附件
type GenerationRequest struct {
	Mode       Mode
	Prompt     string
	Attachment *Attachment
}

// InlineData 内联数据片段：base64 编码的二进制内容及其 MIME 类型
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part 提供商请求片段，Text 与 InlineData 二选一
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// ProviderRequest 发往模型提供商的单轮用户请求
type ProviderRequest struct {
	Mode  Mode
	Parts []Part
}

// BuildProviderRequest 构建提供商请求
// 文本模式只含一个文本片段；其他模式为 [文本指令, 内联数据]
func BuildProviderRequest(r *GenerationRequest) *ProviderRequest {
	parts := []Part{{Text: r.Prompt}}
	if r.Attachment != nil {
		parts = append(parts, Part{InlineData: &InlineData{
			MIMEType: r.Attachment.MIMEType,
			Data:     r.Attachment.Base64(),
		}})
	}
	return &ProviderRequest{Mode: r.Mode, Parts: parts}
}

// Text 拼接全部文本片段
func (p *ProviderRequest) Text() string {
	var out string
	for _, part := range p.Parts {
		if part.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += part.Text
	}
	return out
}

// Inline 返回第一个内联数据片段
func (p *ProviderRequest) Inline() *InlineData {
	for _, part := range p.Parts {
		if part.InlineData != nil {
			return part.InlineData
		}
	}
	return nil
}

// GenerationResult 生成结果
type GenerationResult struct {
	Mode Mode
	Text string
}
