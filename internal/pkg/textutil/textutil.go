// Package textutil 提供文档索引相关的文本处理工具函数。
package textutil

import (
	"regexp"
	"unicode/utf8"
)

var nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)

// StripNonASCII 将非 ASCII 字符序列替换为单个空格。
// 嵌入模型的知识库语料为英文，清洗可避免乱码进入索引。
func StripNonASCII(s string) string {
	return nonASCIIPattern.ReplaceAllString(s, " ")
}

// TruncateString 截断字符串到指定的最大 Unicode 字符数。
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// SplitIntoChunks 将文本分割成重叠的块。
// chunkSize 是每个块的大小（Unicode 字符数），overlap 是块之间的重叠大小。
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	step := chunkSize - overlap

	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
