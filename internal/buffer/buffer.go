// Package buffer provides the documents a scan reads from.
package buffer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	perrors "github.com/zhubert/secops/internal/errors"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/scan"
)

// File is a single document read from disk. Its text is captured when the
// file is opened, so SnapshotText never touches the filesystem.
type File struct {
	path string
	text string
	// binary is set when the content is not UTF-8 text or contains NUL bytes.
	binary bool
}

var _ scan.BufferSource = (*File)(nil)

// Open reads path into a File. Directories and other non-regular files are
// rejected.
func Open(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, perrors.BufferOpenFailed(path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, perrors.BufferOpenFailed(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, perrors.BufferOpenFailed(path, fmt.Errorf("not a regular file"))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, perrors.BufferOpenFailed(path, err)
	}

	f := &File{
		path:   abs,
		text:   string(data),
		binary: !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0,
	}
	logger.Debug("Buffer: opened %s (%d bytes, binary=%v)", abs, len(data), f.binary)
	return f, nil
}

// FromText builds a File from text already in memory, as an editor would
// for an open document.
func FromText(path, text string) *File {
	return &File{
		path:   path,
		text:   text,
		binary: !utf8.ValidString(text) || bytes.IndexByte([]byte(text), 0) >= 0,
	}
}

// Path returns the absolute path of the file.
func (f *File) Path() string { return f.path }

// Size returns the byte length of the captured text.
func (f *File) Size() int { return len(f.text) }

// IsSingleFileBacked implements scan.BufferSource. Binary content is not a
// text buffer and is never eligible.
func (f *File) IsSingleFileBacked() bool {
	return f.path != "" && !f.binary
}

// SnapshotText implements scan.BufferSource.
func (f *File) SnapshotText() string { return f.text }

// Multi is a view over several files, like a multi-file diff. It is never
// eligible for a scan.
type Multi struct {
	files []*File
}

var _ scan.BufferSource = (*Multi)(nil)

// NewMulti combines files into one view.
func NewMulti(files ...*File) *Multi {
	return &Multi{files: files}
}

// Files returns the files in the view.
func (m *Multi) Files() []*File { return m.files }

// IsSingleFileBacked implements scan.BufferSource.
func (m *Multi) IsSingleFileBacked() bool { return false }

// SnapshotText implements scan.BufferSource. Excerpts are joined in order.
func (m *Multi) SnapshotText() string {
	var b bytes.Buffer
	for i, f := range m.files {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.text)
	}
	return b.String()
}
