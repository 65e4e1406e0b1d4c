package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.log", "a.log", "c.log.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("1.1.1.1\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "d.log"), nil, 0o644))
	_ = os.Symlink(filepath.Join(dir, "a.log"), filepath.Join(dir, "link.log"))

	got, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "b.log"),
		filepath.Join(dir, "c.log.gz"),
	}, got)
}

func TestFiles_Empty(t *testing.T) {
	got, err := Files(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFiles_Errors(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err = Files(f)
	assert.ErrorIs(t, err, ErrNotDir)
}
