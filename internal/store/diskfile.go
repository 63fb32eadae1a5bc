package store

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"certchat/internal/domain"
)

const defaultMIMEType = "application/octet-stream"

// DiskFile is a domain.File read from the filesystem. Size is captured when
// the file is opened with OpenDiskFile.
type DiskFile struct {
	path     string
	size     int64
	mimeType string
}

// OpenDiskFile stats path and guesses its type from the extension. The
// stored path is absolute.
func OpenDiskFile(path string) (*DiskFile, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		t = defaultMIMEType
	}
	return &DiskFile{path: path, size: fi.Size(), mimeType: t}, nil
}

// Name implements domain.File.
func (f *DiskFile) Name() string { return filepath.Base(f.path) }

// Size implements domain.File.
func (f *DiskFile) Size() int64 { return f.size }

// Type implements domain.File.
func (f *DiskFile) Type() string { return f.mimeType }

// Path returns the path the file was opened from.
func (f *DiskFile) Path() string { return f.path }

// Open implements domain.File.
func (f *DiskFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

var _ domain.File = (*DiskFile)(nil)
