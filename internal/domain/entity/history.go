package entity

import "time"

// HistoryEntry 客户端本地历史记录条目
type HistoryEntry struct {
	// TS 毫秒时间戳
	TS       int64     `json:"ts"`
	Mode     Mode      `json:"mode"`
	Prompt   string    `json:"prompt"`
	FileMeta *FileMeta `json:"fileMeta"`
	Result   string    `json:"result"`
}

// Time 返回条目时间
func (e HistoryEntry) Time() time.Time {
	return time.UnixMilli(e.TS)
}

// Valid 条目是否可用：模式已知且时间戳有效
func (e HistoryEntry) Valid() bool {
	return e.TS > 0 && e.Mode.Valid()
}
