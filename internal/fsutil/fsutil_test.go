package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	dir := t.TempDir()
	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	file := filepath.Join(dir, "a.twig")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	t.Run("existing file", func(t *testing.T) {
		assert.Equal(t, filepath.Join(realDir, "a.twig"), Canonical(file))
	})

	t.Run("dot segments", func(t *testing.T) {
		messy := filepath.Join(dir, "sub", "..", ".", "a.twig")
		assert.Equal(t, filepath.Join(realDir, "a.twig"), Canonical(messy))
	})

	t.Run("symlink", func(t *testing.T) {
		link := filepath.Join(dir, "link.twig")
		if err := os.Symlink(file, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		assert.Equal(t, filepath.Join(realDir, "a.twig"), Canonical(link))
	})

	t.Run("missing yields sentinel", func(t *testing.T) {
		assert.Equal(t, "", Canonical(filepath.Join(dir, "nope.twig")))
		assert.Equal(t, "", Canonical(""))
	})
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestReadText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))

	got, err := ReadText(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = ReadText(file + ".missing")
	assert.Error(t, err)
}
