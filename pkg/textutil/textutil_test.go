package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "日本", TruncateRunes("日本語", 2))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "abc", Ellipsize("abc", 3))
	assert.Equal(t, "ab…", Ellipsize("abc", 2))
}
