package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Name  string // chat name derived from the file or its folder
	Mtime int64
	Size  int64
}

// exportName is the file WhatsApp writes inside an unzipped export.
const exportName = "_chat.txt"

// ScanExports returns every chat export under root, sorted by path.
// A missing root yields no files and no error.
func ScanExports(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsExport(path) {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Name:  ChatName(path),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// IsExport reports whether path looks like a chat export file.
func IsExport(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".txt")
}

// ChatName names a chat after its export. "_chat.txt" takes the name of the
// folder it was unzipped into; other files drop the extension and the
// "WhatsApp Chat - " prefix.
func ChatName(path string) string {
	base := filepath.Base(path)
	if base == exportName {
		return strings.TrimPrefix(filepath.Base(filepath.Dir(path)), "WhatsApp Chat - ")
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(name, "WhatsApp Chat - ")
}
