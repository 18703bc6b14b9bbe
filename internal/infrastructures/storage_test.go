package infrastructures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalObjectStorage_PutAndDelete(t *testing.T) {
	store := NewLocalObjectStorage(t.TempDir())

	path, err := store.Put(context.Background(), "audits/abc/photo.jpg", "image/jpeg", []byte("bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	require.NoError(t, store.Delete(context.Background(), path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalObjectStorage_NestedDirectoriesCreated(t *testing.T) {
	base := t.TempDir()
	store := NewLocalObjectStorage(base)

	path, err := store.Put(context.Background(), "a/b/c/file.bin", "application/octet-stream", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "a", "b", "c", "file.bin"), path)
}

func TestLocalObjectStorage_DeleteOutsideBaseRejected(t *testing.T) {
	store := NewLocalObjectStorage(t.TempDir())

	outside := filepath.Join(t.TempDir(), "escape.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	err := store.Delete(context.Background(), outside)
	require.Error(t, err)

	// The target is untouched.
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}
