package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"a"}`+"\n"), 0644))

	first, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Len(t, first, 8)

	again, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte(`{"id":"b"}`+"\n"), 0644))
	changed, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	_, err = CalculateFileFingerprint(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestGetFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size)
	assert.NotZero(t, info.Inode)
	assert.NotZero(t, info.ModTime)

	again, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.False(t, info.Changed(*again))

	require.NoError(t, os.WriteFile(path, []byte("[{}]"), 0644))
	grown, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.True(t, info.Changed(*grown))

	_, err = GetFileInfo(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
