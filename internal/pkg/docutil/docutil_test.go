package docutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/support-assistant/internal/pkg/docutil"
)

func TestListFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "subdir"), 0o755))

	for _, name := range []string{"b.TXT", "a.pdf", "c.png", "subdir/d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("test"), 0o644))
	}

	files, err := docutil.ListFiles(tmpDir, []string{".pdf", ".txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.pdf"),
		filepath.Join(tmpDir, "b.TXT"),
	}, files, "非递归，按名称排序，扩展名大小写不敏感")

	all, err := docutil.ListFiles(tmpDir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListFiles_MissingDir(t *testing.T) {
	files, err := docutil.ListFiles(filepath.Join(t.TempDir(), "missing"), []string{".txt"})
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".docx", docutil.Ext("/tmp/Guide.DOCX"))
	assert.Equal(t, "", docutil.Ext("/tmp/README"))
}

func TestDirExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	assert.True(t, docutil.DirExists(tmpDir))
	assert.False(t, docutil.DirExists(filepath.Join(tmpDir, "nope")))
	assert.False(t, docutil.DirExists(path))
}
