package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks root and discovers all CSV files beneath it. If root is a
// regular file it is returned on its own regardless of extension.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{{Path: root, Name: filepath.Base(root), Size: info.Size()}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		df := DiscoveredFile{Path: path, Name: d.Name()}
		if fi, err := d.Info(); err == nil {
			df.Size = fi.Size()
		}
		files = append(files, df)
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Discover expands a mix of files and directories into CSV files, dropping
// duplicates while keeping first-seen order.
func Discover(paths []string) ([]DiscoveredFile, error) {
	seen := make(map[string]struct{})
	var out []DiscoveredFile
	for _, p := range paths {
		files, err := ScanDir(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			abs, _ := filepath.Abs(f.Path)
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}
