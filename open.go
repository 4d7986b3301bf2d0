package slidedom

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Open reads a .pptx file from disk.
func Open(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	d, err := Read(f, info.Size(), opts...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

// Read reads a .pptx package from r. Malformed packages fail with
// ErrFormat; packages whose parts reference each other inconsistently fail
// with ErrInconsistentDocument.
func Read(r io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	d := newDocument(opts...)
	if err := readPackage(d, r, size); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadBytes reads a .pptx package held in memory.
func ReadBytes(data []byte, opts ...Option) (*Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)), opts...)
}
