// Package localstore 提供客户端本地键值存储
package localstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("localstore: key not found")

// Store 字符串键值存储，语义与浏览器 localStorage 一致
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open 按驱动名打开存储：file | sqlite
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "file":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "sqlite3":
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history driver: %s", driver)
	}
}
