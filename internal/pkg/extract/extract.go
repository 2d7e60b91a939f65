// Package extract turns local documents (pdf, txt, docx) into plain text and chunks.
package extract

import (
	"fmt"

	"github.com/kart-io/support-assistant/internal/pkg/docutil"
	"github.com/kart-io/support-assistant/internal/pkg/textutil"
)

// DefaultChunkSize is the chunk length, in characters, for file-derived text.
const DefaultChunkSize = 1000

// SupportedExtensions lists the handled file extensions.
var SupportedExtensions = []string{".pdf", ".txt", ".docx"}

// ErrorHook receives extraction failures. Extraction itself never fails.
type ErrorHook func(path string, err error)

// Extractor dispatches on file extension.
type Extractor struct {
	onError ErrorHook
}

// NewExtractor creates an Extractor. onError may be nil.
func NewExtractor(onError ErrorHook) *Extractor {
	return &Extractor{onError: onError}
}

var defaultExtractor = NewExtractor(nil)

// ExtractText extracts the plain text of path with the default extractor.
func ExtractText(path string) string {
	return defaultExtractor.ExtractText(path)
}

// Supported reports whether path has a handled extension.
func Supported(path string) bool {
	switch docutil.Ext(path) {
	case ".pdf", ".txt", ".docx":
		return true
	default:
		return false
	}
}

// ExtractText returns the text of path, or "" if the type is unsupported or
// reading fails. Failures go to the error hook.
func (e *Extractor) ExtractText(path string) string {
	var (
		text string
		err  error
	)
	switch docutil.Ext(path) {
	case ".pdf":
		text, err = readPDF(path)
	case ".txt":
		text, err = readTXT(path)
	case ".docx":
		text, err = readDOCX(path)
	default:
		return ""
	}
	if err != nil {
		e.report(path, err)
		return ""
	}
	return text
}

func (e *Extractor) report(path string, err error) {
	if e.onError != nil {
		e.onError(path, err)
	}
}

// Chunk splits text into consecutive pieces of size characters; the last may be shorter.
// size <= 0 uses DefaultChunkSize.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return textutil.SplitIntoChunks(text, size)
}

// recoverErr converts a parser panic into an error.
func recoverErr(kind string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed document: %v", kind, r)
	}
}
