package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripNonASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "hello world", "hello world"},
		{"accented run", "café au lait", "caf  au lait"},
		{"cjk block", "billing说明info", "billing info"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripNonASCII(tt.input))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel", TruncateString("hello", 3))
	assert.Equal(t, "hél", TruncateString("héllo", 3))
}

func TestSplitIntoChunks(t *testing.T) {
	t.Run("short text single chunk", func(t *testing.T) {
		chunks := SplitIntoChunks("short", 100, 0)
		assert.Equal(t, []string{"short"}, chunks)
	})

	t.Run("no overlap covers all text", func(t *testing.T) {
		text := strings.Repeat("a", 25)
		chunks := SplitIntoChunks(text, 10, 0)
		assert.Len(t, chunks, 3)
		assert.Equal(t, 10, len(chunks[0]))
		assert.Equal(t, 5, len(chunks[2]))
		assert.Equal(t, text, strings.Join(chunks, ""))
	})

	t.Run("overlap repeats boundary", func(t *testing.T) {
		chunks := SplitIntoChunks("abcdefghij", 4, 2)
		assert.Equal(t, "abcd", chunks[0])
		assert.Equal(t, "cdef", chunks[1])
	})

	t.Run("invalid chunk size", func(t *testing.T) {
		assert.Nil(t, SplitIntoChunks("text", 0, 0))
	})
}
