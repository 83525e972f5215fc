// Package storage persists uploaded product images on the local filesystem
// under a fixed "products" namespace and addresses them by generated opaque
// filenames.
package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is the upload size limit: 5 MiB.
	MaxFileSize = 5 * 1024 * 1024

	// PublicPrefix is the URL prefix under which stored images are served.
	PublicPrefix = "/uploads/products/"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	// ErrUnsupportedMediaType is returned for a missing filename or an
	// extension outside the allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge is returned when the content exceeds MaxFileSize.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStorageWrite wraps filesystem write failures.
	ErrStorageWrite = errors.New("storage write failed")
)

// ImageStore writes and removes product image files in a single directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates the backing directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// AllowedExtensions returns the sorted allow-list for error messages.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// Save validates and writes the uploaded bytes, returning the public URL of
// the stored file. The original filename is only used for its extension; the
// stored name is a fresh UUID so writes never collide.
func (s *ImageStore) Save(data []byte, originalFilename string) (string, error) {
	if originalFilename == "" {
		return "", fmt.Errorf("%w: no filename provided", ErrUnsupportedMediaType)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: extension %q is not allowed", ErrUnsupportedMediaType, ext)
	}

	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrPayloadTooLarge, len(data), MaxFileSize)
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	return PublicPrefix + filename, nil
}

// Delete removes the file referenced by url. It is idempotent: a file that is
// already absent returns false without an error.
func (s *ImageStore) Delete(url string) (bool, error) {
	if url == "" {
		return false, nil
	}

	filename := filepath.Base(url)
	path := filepath.Join(s.dir, filename)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Printf("Image file already absent, nothing to delete: %s", path)
			return false, nil
		}
		return false, fmt.Errorf("failed to delete image file %s: %w", path, err)
	}
	return true, nil
}

// Exists reports whether the file referenced by url is present on disk.
func (s *ImageStore) Exists(url string) bool {
	if url == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(url)))
	return err == nil
}
