package filesys_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/kvignite/pkg/filesys"
)

func TestCreateDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, filesys.CreateDir(dir, 0755, true))
	require.NoError(t, filesys.CreateDir(dir, 0755, true))

	exists, err := filesys.Exists(dir)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestWriteReadDeleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	require.NoError(t, filesys.WriteFile(path, 0644, []byte("hello")))

	data, err := filesys.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.NoError(t, filesys.DeleteFile(path))

	exists, err := filesys.Exists(path)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestReadDirGlobsSegmentFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, filesys.WriteFile(filepath.Join(dir, "1.log"), 0644, nil))
	require.NoError(t, filesys.WriteFile(filepath.Join(dir, "2.log"), 0644, nil))
	require.NoError(t, filesys.WriteFile(filepath.Join(dir, "notes.txt"), 0644, nil))

	matches, err := filesys.ReadDir(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
}
