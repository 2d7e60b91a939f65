// Package textutil 提供文本处理工具函数。
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// HashString 计算字符串的 SHA-256 哈希值（十六进制）。
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// TruncateString 截断字符串到指定的最大 Unicode 字符数。
// maxLen <= 0 表示不截断。
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// SplitIntoChunks 将文本按 Unicode 字符切成定长块，最后一块可能更短，空文本返回 nil。
func SplitIntoChunks(text string, chunkSize int) []string {
	if chunkSize <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for i := 0; i < len(runes); i += chunkSize {
		end := min(i+chunkSize, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Capitalize 将首字母大写，其余保持不变。
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
