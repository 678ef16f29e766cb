package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no blob exists at the given path.
var ErrNotFound = errors.New("blob not found")

// Store is a path-addressed blob store backed by a local directory. It
// substitutes the managed file storage: upload by path, fetch a URL, delete
// by path. Small images can instead be inlined as data URLs via InlineURL,
// the first step of the upload fallback chain.
type Store struct {
	dir            string
	inlineMaxBytes int64
}

// NewStore creates the backing directory if needed.
func NewStore(dir string, inlineMaxBytes int64) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, inlineMaxBytes: inlineMaxBytes}, nil
}

// CanInline reports whether the payload is small enough to embed directly.
func (s *Store) CanInline(size int64) bool {
	return s.inlineMaxBytes > 0 && size <= s.inlineMaxBytes
}

// InlineURL encodes the payload as a data URL, bypassing the blob store.
func (s *Store) InlineURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Save writes the payload under a generated path inside the given folder and
// returns the storage path. The path doubles as the download URL suffix.
func (s *Store) Save(folder, filename string, data []byte) (string, error) {
	var suffix [8]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	name := hex.EncodeToString(suffix[:]) + ext
	rel := filepath.Join(sanitize(folder), name)

	abs := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Open returns the blob stored at path.
func (s *Store) Open(path string) ([]byte, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Delete removes the blob stored at path. Deleting a missing blob is not an
// error.
func (s *Store) Delete(path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// URL returns the public download URL for a stored path.
func (s *Store) URL(path string) string {
	return "/files/" + filepath.ToSlash(path)
}

func (s *Store) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid path %q", path)
	}
	return filepath.Join(s.dir, clean), nil
}

func sanitize(folder string) string {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "misc"
	}
	folder = strings.ReplaceAll(folder, "..", "")
	return strings.Trim(filepath.ToSlash(folder), "/")
}
