// Package docstore provides a filesystem-backed document store.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CreativeUnicorns/prefdoc"
)

// FileStore persists the document as a single UTF-8 text file. Writes are
// atomic: the text lands in a temp file in the target directory which is
// then renamed over the destination.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given path. The file itself is
// not touched until the first Write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", prefdoc.ErrNilArgument)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Read returns the file contents, or prefdoc.ErrDocumentNotFound when the
// file does not exist.
func (s *FileStore) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", prefdoc.ErrDocumentNotFound
		}
		return "", fmt.Errorf("failed to read document %q: %w", s.path, err)
	}
	return string(data), nil
}

// Write atomically replaces the file contents.
func (s *FileStore) Write(_ context.Context, text string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create document directory %q: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary document file in %q: %w", dir, err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(text); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary document file %q: %w", tempPath, err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary document file %q: %w", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary document file %q: %w", tempPath, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %q: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to rename %q to %q: %w", tempPath, s.path, err)
	}
	return nil
}

// Close is a no-op; the store holds no open handle between calls.
func (s *FileStore) Close() error { return nil }
