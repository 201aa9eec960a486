package fsutil

import (
	"fmt"
	"io"
	"path/filepath"
)

// OpenMode selects how an output file is opened.
type OpenMode int

const (
	// Truncate starts the file empty.
	Truncate OpenMode = iota
	// Append keeps existing contents and writes after them.
	Append
)

// OutputFileHandler opens result files inside one output directory.
type OutputFileHandler struct {
	fs  FileSystem
	dir string
}

// NewOutputFileHandler creates the output directory if needed. With clean set,
// files left in an existing directory by an earlier run are removed first.
func NewOutputFileHandler(fsys FileSystem, dir string, clean bool) (*OutputFileHandler, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	h := &OutputFileHandler{fs: fsys, dir: dir}
	if clean {
		if err := h.Clean(); err != nil {
			return nil, err
		}
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return h, nil
}

// Dir returns the output directory.
func (h *OutputFileHandler) Dir() string { return h.dir }

// Clean removes the files directly inside the output directory.
// Subdirectories and their contents are left alone. A missing directory is
// not an error.
func (h *OutputFileHandler) Clean() error {
	if !h.fs.Exists(h.dir) {
		return nil
	}
	files, err := h.fs.Files(h.dir)
	if err != nil {
		return fmt.Errorf("list output directory %s: %w", h.dir, err)
	}
	for _, name := range files {
		if err := h.fs.Remove(name); err != nil {
			return fmt.Errorf("clean output directory %s: %w", h.dir, err)
		}
	}
	return nil
}

// Path joins name onto the output directory.
func (h *OutputFileHandler) Path(name string) string { return filepath.Join(h.dir, name) }

// OpenOutputFile opens name inside the output directory.
func (h *OutputFileHandler) OpenOutputFile(name string, mode OpenMode) (io.WriteCloser, error) {
	path := h.Path(name)
	var (
		w   io.WriteCloser
		err error
	)
	if mode == Append {
		w, err = h.fs.Append(path)
	} else {
		w, err = h.fs.Create(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}
	return w, nil
}
