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

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_AppendKeepsContents(t *testing.T) {
	dir := t.TempDir()
	fsys := OSFileSystem{}
	path := filepath.Join(dir, "log.txt")

	w, err := fsys.Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "a\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = fsys.Append(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "b\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestMemoryFileSystem_WriteThrough(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/results.txt")
	require.NoError(t, err)
	_, err = io.WriteString(w, "0\t")
	require.NoError(t, err)

	data, err := mfs.ReadFile("/out/results.txt")
	require.NoError(t, err)
	assert.Equal(t, "0\t", string(data), "writes are visible before Close")

	require.NoError(t, w.Close())
	_, err = w.Write([]byte("x"))
	assert.True(t, errors.Is(err, fs.ErrClosed))
	assert.True(t, errors.Is(w.Close(), fs.ErrClosed))
}

func TestMemoryFileSystem_CreateTruncatesAppendExtends(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, writeAll(mfs.Create, "/f", "first"))
	require.NoError(t, writeAll(mfs.Append, "/f", "+more"))
	data, _ := mfs.ReadFile("/f")
	assert.Equal(t, "first+more", string(data))

	require.NoError(t, writeAll(mfs.Create, "/f", "new"))
	data, _ = mfs.ReadFile("/f")
	assert.Equal(t, "new", string(data))
}

func TestMemoryFileSystem_DirsAndRemove(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/a/b/c", 0o755))
	assert.True(t, mfs.Exists("/a"))
	assert.True(t, mfs.Exists("/a/b/c"))

	require.NoError(t, writeAll(mfs.Create, "/a/x", "1"))
	require.NoError(t, writeAll(mfs.Create, "/a/b/y", "2"))
	files, err := mfs.Files("/a")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Clean("/a/x")}, files, "only direct children")
	require.NoError(t, mfs.Remove("/a/x"))
	assert.False(t, mfs.Exists("/a/x"))

	files, err = mfs.Files("/a")
	require.NoError(t, err)
	assert.Empty(t, files)
	_, err = mfs.Files("/nowhere")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = mfs.ReadFile("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, mfs.Remove("/missing"), fs.ErrNotExist)
}

func TestOutputFileHandler(t *testing.T) {
	mfs := NewMemoryFileSystem()
	h, err := NewOutputFileHandler(mfs, "/runs/one", false)
	require.NoError(t, err)
	assert.True(t, mfs.Exists("/runs/one"))
	assert.Equal(t, filepath.Join("/runs/one", "r.txt"), h.Path("r.txt"))

	w, err := h.OpenOutputFile("r.txt", Truncate)
	require.NoError(t, err)
	_, _ = io.WriteString(w, "a")
	require.NoError(t, w.Close())

	w, err = h.OpenOutputFile("r.txt", Append)
	require.NoError(t, err)
	_, _ = io.WriteString(w, "b")
	require.NoError(t, w.Close())

	data, err := mfs.ReadFile(h.Path("r.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestOutputFileHandler_CleanEmptiesExistingDirectory(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/runs/one/frames", 0o755))
	require.NoError(t, writeAll(mfs.Create, "/runs/one/results.vizelements", "0\t1 0 \n"))
	require.NoError(t, writeAll(mfs.Create, "/runs/one/parameters.txt", "old"))
	require.NoError(t, writeAll(mfs.Create, "/runs/one/frames/0001.png", "png"))
	require.NoError(t, writeAll(mfs.Create, "/runs/two/results.vizelements", "keep"))

	kept, err := NewOutputFileHandler(mfs, "/runs/one", false)
	require.NoError(t, err)
	files, err := mfs.Files(kept.Dir())
	require.NoError(t, err)
	assert.Len(t, files, 2, "without clean earlier output stays")

	h, err := NewOutputFileHandler(mfs, "/runs/one", true)
	require.NoError(t, err)
	files, err = mfs.Files(h.Dir())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.True(t, mfs.Exists("/runs/one"))
	assert.True(t, mfs.Exists("/runs/one/frames/0001.png"), "subdirectories are left alone")
	assert.True(t, mfs.Exists("/runs/two/results.vizelements"), "sibling runs are left alone")
}

func TestOutputFileHandler_CleanOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run-a")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "results.vizelements"), []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "keep.txt"), []byte("x"), 0o644))

	h, err := NewOutputFileHandler(OSFileSystem{}, dir, true)
	require.NoError(t, err)

	files, err := OSFileSystem{}.Files(h.Dir())
	require.NoError(t, err)
	assert.Empty(t, files)
	_, err = os.Stat(filepath.Join(dir, "sub", "keep.txt"))
	assert.NoError(t, err)
}

func TestOutputFileHandler_CleanMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	h, err := NewOutputFileHandler(OSFileSystem{}, dir, true)
	require.NoError(t, err)
	assert.True(t, OSFileSystem{}.Exists(h.Dir()))
	require.NoError(t, h.Clean(), "cleaning an empty directory")
}

func writeAll(open func(string) (io.WriteCloser, error), name, s string) error {
	w, err := open(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	return w.Close()
}
