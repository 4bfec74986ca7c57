package batch

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-imsto/smol/image"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg", "b.jpg", "C.JPG", "d.jpeg", "e.png", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.jpg"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "smol"), 0755))
	touch(t, filepath.Join(dir, "smol"), "a.jpg")

	files, err := Enumerate(dir, "")
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}, files)

	files, err = Enumerate(dir, "*.JPG")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "C.JPG")}, files)
}

func TestEnumerateEmpty(t *testing.T) {
	files, err := Enumerate(t.TempDir(), DefaultPattern)
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestEnumerateErrors(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "missing"), DefaultPattern)
	require.Error(t, err)
	assert.ErrorIs(t, err, image.ErrDirectoryRead)

	_, err = Enumerate(t.TempDir(), "[")
	assert.Equal(t, image.DirectoryRead, image.KindOf(err))
}
