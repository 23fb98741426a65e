package domain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// File is a user-chosen file held in memory until it is uploaded.
// No type or size constraint is enforced on the client.
type File struct {
	raw openapi_types.File
}

// NewFile wraps in-memory content under the given file name.
func NewFile(name string, data []byte) *File {
	f := &File{}
	f.raw.InitFromBytes(data, name)
	return f
}

// ReadFile loads a file from disk, keeping only its base name.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewFile(filepath.Base(path), data), nil
}

// Name returns the file name sent with the upload.
func (f *File) Name() string { return f.raw.Filename() }

// Size returns the content length in bytes.
func (f *File) Size() int64 { return f.raw.FileSize() }

// Open returns a reader over the file content.
func (f *File) Open() (io.ReadCloser, error) {
	rc, err := f.raw.Reader()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name(), err)
	}
	return rc, nil
}
