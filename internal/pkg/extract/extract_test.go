package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>How to open </w:t></w:r><w:r><w:t>a demat account</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Complete e-KYC online</w:t></w:r></w:p>
</w:body>
</w:document>`

func writeDOCX(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestExtractText_TXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte("Brokerage is charged per order.\n"), 0o644))

	assert.Equal(t, "Brokerage is charged per order.\n", ExtractText(path))
}

func TestExtractText_DOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.DOCX")
	writeDOCX(t, path, testDocumentXML)

	assert.Equal(t, "How to open a demat account\n\nComplete e-KYC online", ExtractText(path))
}

func TestExtractText_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0o644))

	assert.False(t, Supported(path))
	assert.Empty(t, ExtractText(path))
}

func TestExtractText_FailureReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	var reported []string
	e := NewExtractor(func(p string, err error) {
		assert.Error(t, err)
		reported = append(reported, p)
	})

	assert.Empty(t, e.ExtractText(path))
	assert.Equal(t, []string{path}, reported)
}

func TestExtractText_MissingDOCXBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, zip.NewWriter(f).Close())
	require.NoError(t, f.Close())

	var failed bool
	e := NewExtractor(func(string, error) { failed = true })
	assert.Empty(t, e.ExtractText(path))
	assert.True(t, failed)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.pdf"))
	assert.True(t, Supported("A.TXT"))
	assert.True(t, Supported("b.docx"))
	assert.False(t, Supported("b.doc"))
	assert.False(t, Supported("noext"))
}

func TestChunk(t *testing.T) {
	chunks := Chunk(strings.Repeat("a", 2500), 1000)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 500)

	assert.Empty(t, Chunk("", 1000))
	assert.Len(t, Chunk(strings.Repeat("b", 1500), 0), 2)
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(strings.Repeat("x", 1200)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.csv"), []byte("x,y"), 0o644))
	writeDOCX(t, filepath.Join(dir, "d.docx"), testDocumentXML)

	chunks := NewLoader(WithWorkers(2)).LoadDir(context.Background(), dir)
	require.Len(t, chunks, 4)
	assert.Equal(t, "first file", chunks[0])
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 200)
	assert.Equal(t, "How to open a demat account\n\nComplete e-KYC online", chunks[3])
}

func TestLoader_MissingDir(t *testing.T) {
	var reported []string
	loader := NewLoader(WithErrorHook(func(p string, _ error) { reported = append(reported, p) }))

	dir := t.TempDir()
	assert.Empty(t, loader.LoadDir(context.Background(), filepath.Join(dir, "nope")))

	file := filepath.Join(dir, "faq.txt")
	require.NoError(t, os.WriteFile(file, []byte("not a directory"), 0o644))
	assert.Empty(t, loader.LoadDir(context.Background(), file))

	assert.Empty(t, reported, "a missing assets directory is not an extraction failure")
}
