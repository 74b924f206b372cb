// Package textutil 文本处理工具
package textutil

import "unicode/utf8"

// TruncateRunes 按字符数截断，不会切断多字节字符
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// Ellipsize 超出长度时截断并追加省略号
func Ellipsize(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return TruncateRunes(s, maxRunes) + "…"
}
