// Package docutil 提供文档文件相关的工具函数。
package docutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles 列出目录下（不递归）扩展名匹配的文件，按文件名排序。
// extensions 形如 []string{".pdf", ".txt"}，大小写不敏感；为空时返回全部文件。
// 目录不存在时返回空列表且无错误。
func ListFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(extMap) > 0 && !extMap[Ext(entry.Name())] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Ext 返回小写的文件扩展名（含点）。
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// DirExists 检查目录是否存在。
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
