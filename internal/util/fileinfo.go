package util

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileInfo identifies one version of an input file.
type FileInfo struct {
	ModTime int64  // unix nanoseconds
	Size    int64  // bytes
	Inode   uint64 // survives renames, changes on atomic replace
}

// Changed reports whether other describes a different version of the file.
func (f FileInfo) Changed(other FileInfo) bool {
	return f != other
}

// GetFileInfo stats path. Linux and macOS only.
func GetFileInfo(path string) (*FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileInfo{
		ModTime: modTime(&st),
		Size:    st.Size,
		Inode:   uint64(st.Ino),
	}, nil
}
