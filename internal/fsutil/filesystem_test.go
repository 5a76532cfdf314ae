package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_OpenAndStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.log")
	require.NoError(t, os.WriteFile(path, []byte("0,0,0;1.0\n"), 0o644))

	var fsys FileSystem = OSFileSystem{}
	assert.True(t, fsys.Exists(path))
	assert.False(t, fsys.Exists(filepath.Join(dir, "missing.log")))

	info, err := fsys.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size())

	f, err := fsys.Open(path)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "0,0,0;1.0\n", string(data))
}

func TestOSFileSystem_Create(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	w, err := OSFileSystem{}.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestMemoryFileSystem_WriteAndOpen(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("logs/run1.txt", []byte("1,2,3;4"))

	assert.True(t, m.Exists("logs/run1.txt"))
	assert.True(t, m.Exists("logs/../logs/run1.txt"), "paths are cleaned")

	f, err := m.Open("logs/run1.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3;4", string(data))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "run1.txt", info.Name())
	assert.Equal(t, int64(7), info.Size())
}

func TestMemoryFileSystem_OpenNonExistent(t *testing.T) {
	m := NewMemoryFileSystem()
	_, err := m.Open("nope.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Stat("nope.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.ReadFile("nope.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_Unreadable(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("locked.txt", []byte("x"))
	m.SetUnreadable("locked.txt")

	_, err := m.Open("locked.txt")
	assert.True(t, errors.Is(err, fs.ErrPermission))

	// rewriting clears the flag
	m.WriteFile("locked.txt", []byte("y"))
	_, err = m.Open("locked.txt")
	assert.NoError(t, err)
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()
	w, err := m.Create("out/map.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	data, err := m.ReadFile("out/map.png")
	require.NoError(t, err)
	assert.Empty(t, data, "content is not visible before Close")

	require.NoError(t, w.Close())
	data, err = m.ReadFile("out/map.png")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, []string{"out/map.png"}, m.Names())
}

func TestMemoryFileSystem_ReadFileReturnsCopy(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("a.txt", []byte("abc"))
	data, err := m.ReadFile("a.txt")
	require.NoError(t, err)
	data[0] = 'z'

	again, err := m.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
