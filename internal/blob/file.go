package blob

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore writes blobs to a local directory and hands out URLs under a
// public prefix served by the web server.
type FileStore struct {
	dir       string
	publicURL string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir, publicURL string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("blob directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FileStore{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Owns reports whether url points into this store.
func (s *FileStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.publicURL+"/")
}

func (s *FileStore) Put(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	key := uuid.New().String() + extensionFor(filename, DetectContentType(data, contentType))

	// Write to a temp file first so readers never see a partial blob.
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store blob: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *FileStore) Get(ctx context.Context, url string) (*Object, error) {
	if !s.Owns(url) {
		return nil, fmt.Errorf("%w: %s is not a file blob URL", ErrUnavailable, url)
	}
	return s.Open(strings.TrimPrefix(url, s.publicURL+"/"))
}

// Open reads a blob by key.
func (s *FileStore) Open(key string) (*Object, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("%w: invalid key %q", ErrUnavailable, key)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ct := mime.TypeByExtension(filepath.Ext(key))
	if ct == "" {
		ct = DetectContentType(data, "")
	}
	return &Object{Data: data, ContentType: ct}, nil
}

// validKey accepts only flat names produced by Put.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && filepath.Base(key) == key
}

func extensionFor(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
