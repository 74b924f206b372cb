// Package history 客户端本地历史记录：最新在前，最多保留 MaxEntries 条
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/infrastructure/persistence/localstore"
	"gemini-chat-api/pkg/logger"
)

const (
	// Key 历史记录在存储中的固定键
	Key = "gemini_history"
	// MaxEntries 历史上限，每次写入时截断
	MaxEntries = 50
	// SchemaVersion 当前记录格式版本
	SchemaVersion = 1
)

// record 持久化格式
type record struct {
	Version int               `json:"version"`
	Entries []json.RawMessage `json:"entries"`
}

// Store 历史记录存储
type Store struct {
	kv localstore.Store
}

// New 创建历史记录存储
func New(kv localstore.Store) *Store {
	return &Store{kv: kv}
}

// Load 读取历史记录。读取失败或数据损坏时返回空列表，不向上报错。
func (s *Store) Load(ctx context.Context) []entity.HistoryEntry {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			logger.Warn(ctx, "history unreadable, starting empty", "error", err.Error())
		}
		return []entity.HistoryEntry{}
	}
	return Decode(raw)
}

// Add 将条目插入最前并截断到上限
func (s *Store) Add(ctx context.Context, e entity.HistoryEntry) ([]entity.HistoryEntry, error) {
	entries := append([]entity.HistoryEntry{e}, s.Load(ctx)...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	raw, err := Encode(entries)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	return entries, nil
}

// Clear 删除全部历史
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, Key)
}

// Encode 以当前版本格式序列化
func Encode(entries []entity.HistoryEntry) (string, error) {
	rec := record{Version: SchemaVersion, Entries: make([]json.RawMessage, 0, len(entries))}
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return "", err
		}
		rec.Entries = append(rec.Entries, b)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode 解析持久化数据。兼容早期的裸数组格式；无法解析的条目直接跳过。
func Decode(raw string) []entity.HistoryEntry {
	raw = strings.TrimSpace(raw)

	var items []json.RawMessage
	switch {
	case strings.HasPrefix(raw, "["):
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return []entity.HistoryEntry{}
		}
	case strings.HasPrefix(raw, "{"):
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Version > SchemaVersion {
			return []entity.HistoryEntry{}
		}
		items = rec.Entries
	default:
		return []entity.HistoryEntry{}
	}

	entries := make([]entity.HistoryEntry, 0, len(items))
	for _, item := range items {
		var e entity.HistoryEntry
		if err := json.Unmarshal(item, &e); err != nil || !e.Valid() {
			continue
		}
		entries = append(entries, e)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries
}
