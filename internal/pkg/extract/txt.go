package extract

import (
	"os"
	"strings"
	"unicode/utf8"
)

// readTXT returns the whole file. Invalid UTF-8 sequences are replaced.
func readTXT(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�"), nil
	}
	return string(content), nil
}
