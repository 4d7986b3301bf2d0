package slidedom

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	_ "golang.org/x/image/bmp"
)

// HashFunc creates the content hash used to key media.
type HashFunc func() hash.Hash

// SHA512 is the default media hash.
var SHA512 HashFunc = sha512.New

// BLAKE2b512 is an alternative media hash.
func BLAKE2b512() hash.Hash {
	h, _ := blake2b.New512(nil) // only fails for keys longer than 64 bytes
	return h
}

const contentTypeOLE = "application/vnd.openxmlformats-officedocument.oleObject"

// MediaHandle is an immutable binary resource shared by every shape that
// references the same bytes.
type MediaHandle struct {
	name        string
	contentType string
	digest      string
	data        []byte
	width       int
	height      int
}

// GetName returns the package file name, e.g. "image1.png".
func (h *MediaHandle) GetName() string { return h.name }

// GetContentType returns the MIME type.
func (h *MediaHandle) GetContentType() string { return h.contentType }

// GetDigest returns the base64 content hash.
func (h *MediaHandle) GetDigest() string { return h.digest }

// GetPixelSize returns the image size in pixels, or zeros for non-images.
func (h *MediaHandle) GetPixelSize() (w, ht int) { return h.width, h.height }

// Bytes returns a copy of the content.
func (h *MediaHandle) Bytes() []byte { return bytes.Clone(h.data) }

// MediaStore deduplicates binary content by hash.
type MediaStore struct {
	hash    HashFunc
	entries map[string]*MediaHandle
	seq     int
	logger  *slog.Logger
	metrics *Metrics
}

func newMediaStore(h HashFunc, logger *slog.Logger, m *Metrics) *MediaStore {
	return &MediaStore{
		hash:    h,
		entries: make(map[string]*MediaHandle),
		logger:  logger,
		metrics: m,
	}
}

// ComputeHash hashes the whole content of r from its start and leaves the
// read position where it was.
func (m *MediaStore) ComputeHash(r io.ReadSeeker) (string, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("media hash: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("media hash: %w", err)
	}
	h := m.hash()
	_, copyErr := io.Copy(h, r)
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return "", fmt.Errorf("media hash: restore position: %w", err)
	}
	if copyErr != nil {
		return "", fmt.Errorf("media hash: %w", copyErr)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// TryGet returns the handle registered for digest.
func (m *MediaStore) TryGet(digest string) (*MediaHandle, bool) {
	h, ok := m.entries[digest]
	return h, ok
}

// Put registers h under digest. An existing registration is kept and Put
// reports false.
func (m *MediaStore) Put(digest string, h *MediaHandle) bool {
	if _, ok := m.entries[digest]; ok {
		return false
	}
	h.digest = digest
	if h.name == "" {
		h.name = m.nextName(h.contentType)
	}
	m.entries[digest] = h
	return true
}

// Add returns the handle for data, registering it on first sight. An empty
// contentType means data must be a decodable image.
func (m *MediaStore) Add(data []byte, contentType string) (*MediaHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("media content is empty: %w", ErrFormat)
	}
	digest, err := m.ComputeHash(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if h, ok := m.TryGet(digest); ok {
		m.logger.Debug("media reused", "name", h.name)
		m.metrics.mediaReused()
		return h, nil
	}

	h := &MediaHandle{contentType: contentType, data: bytes.Clone(data)}
	if contentType == "" || strings.HasPrefix(contentType, "image/") {
		format, w, ht, err := imageSize(data)
		switch {
		case err != nil && contentType == "":
			return nil, err
		case err == nil:
			h.width, h.height = w, ht
			if contentType == "" {
				h.contentType = "image/" + format
			}
		}
	}
	m.Put(digest, h)
	m.logger.Debug("media added", "name", h.name, "type", h.contentType, "bytes", len(data))
	m.metrics.mediaAdded()
	return h, nil
}

// Remove unregisters digest.
func (m *MediaStore) Remove(digest string) bool {
	if _, ok := m.entries[digest]; !ok {
		return false
	}
	delete(m.entries, digest)
	return true
}

// Prune unregisters every entry for which inUse is false and returns how
// many were dropped.
func (m *MediaStore) Prune(inUse func(*MediaHandle) bool) int {
	n := 0
	for d, h := range m.entries {
		if !inUse(h) {
			delete(m.entries, d)
			n++
		}
	}
	return n
}

// Len returns the number of registered entries.
func (m *MediaStore) Len() int { return len(m.entries) }

// All returns the registered entries ordered by name.
func (m *MediaStore) All() []*MediaHandle {
	out := make([]*MediaHandle, 0, len(m.entries))
	for _, h := range m.entries {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (m *MediaStore) nextName(contentType string) string {
	m.seq++
	prefix, ext := "media", "bin"
	switch {
	case contentType == contentTypeOLE:
		prefix = "oleObject"
	case strings.HasPrefix(contentType, "image/"):
		prefix = "image"
	}
	if e, ok := mediaExtensions[contentType]; ok {
		ext = e
	}
	return fmt.Sprintf("%s%d.%s", prefix, m.seq, ext)
}

var mediaExtensions = map[string]string{
	"image/png":       "png",
	"image/jpeg":      "jpeg",
	"image/gif":       "gif",
	"image/bmp":       "bmp",
	"image/tiff":      "tiff",
	"image/x-emf":     "emf",
	"image/x-wmf":     "wmf",
	"image/svg+xml":   "svg",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"audio/mpeg":      "mp3",
	"audio/wav":       "wav",
	contentTypeOLE:    "bin",
}
