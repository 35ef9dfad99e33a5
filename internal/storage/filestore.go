// Package storage provides the local-disk file store backing picture
// uploads.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// FileStore writes uploaded files under a single root directory using
// generated names, so client-supplied filenames never touch the filesystem.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed and returns the store
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// AllowedExtension reports whether the original filename carries an
// accepted image extension.
func (s *FileStore) AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Save streams the upload to disk under a generated name and returns the
// stored filename. The caller must have checked AllowedExtension first;
// Save rejects disallowed extensions again so a file is never written for
// them.
func (s *FileStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("disallowed file extension %q", ext)
	}

	stored := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.root, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return stored, nil
}

// Remove deletes a stored file
func (s *FileStore) Remove(filename string) error {
	return os.Remove(filepath.Join(s.root, filename))
}

// Path returns the on-disk path of a stored file
func (s *FileStore) Path(filename string) string {
	return filepath.Join(s.root, filename)
}
