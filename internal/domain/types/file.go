package types

import (
	"bytes"
	"io"
)

// File is a readable byte source with browser-style metadata.
type File interface {
	Name() string
	Size() int64
	Type() string
	Open() (io.ReadCloser, error)
}

// MemoryFile is a File backed by a byte slice.
type MemoryFile struct {
	FileName string
	MIMEType string
	Data     []byte
}

// NewMemoryFile returns a MemoryFile.
func NewMemoryFile(name, mimeType string, data []byte) *MemoryFile {
	return &MemoryFile{FileName: name, MIMEType: mimeType, Data: data}
}

// Name implements File.
func (f *MemoryFile) Name() string { return f.FileName }

// Size implements File.
func (f *MemoryFile) Size() int64 { return int64(len(f.Data)) }

// Type implements File.
func (f *MemoryFile) Type() string { return f.MIMEType }

// Open implements File.
func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// ReadAll reads the complete content of f.
func ReadAll(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
