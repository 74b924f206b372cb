package entity

import "encoding/base64"

// Attachment 单次请求内的上传文件，仅存在于请求生命周期内
type Attachment struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Size 附件字节数
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// Base64 返回附件内容的标准 base64 编码
func (a *Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// FileMeta 附件元信息，不含文件内容
type FileMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Meta 返回附件元信息
func (a *Attachment) Meta() *FileMeta {
	if a == nil {
		return nil
	}
	return &FileMeta{Name: a.Filename, Type: a.MIMEType}
}
