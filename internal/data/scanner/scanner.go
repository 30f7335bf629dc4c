package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-chronoface/internal/util"
)

// Extensions lists the item file suffixes the scanner picks up.
var Extensions = []string{".json", ".jsonl"}

// FileScanner finds item files under an input path.
type FileScanner struct {
	root string
}

func NewFileScanner(root string) *FileScanner {
	return &FileScanner{root: root}
}

// IsItemFile reports whether path has an item file extension.
func IsItemFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scan returns the item files under the root, sorted. A root that is itself
// a file is returned as-is regardless of extension. Unreadable entries below
// the root are skipped; a missing root is an error.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return []string{s.root}, nil
	}

	util.LogDebugf("Start scanning directory: %s", s.root)

	var files []string
	dirCount, totalCount := 0, 0
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.LogDebugf("Skip entry (error): %s - %v", path, err)
			if d != nil && d.IsDir() && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			dirCount++
			return nil
		}

		totalCount++
		if IsItemFile(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d item files",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}
