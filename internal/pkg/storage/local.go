package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"apcb-events/internal/core/domain"
)

// LocalStore stores blobs on the local filesystem under a base directory.
// Paths are namespaced keys relative to the base.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a local blob store rooted at basePath
func NewLocalStore(basePath string) *LocalStore {
	return &LocalStore{basePath: basePath}
}

func (s *LocalStore) fullPath(path string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(path))
}

// Upload writes the blob, creating parent directories as needed. A partial
// write is removed so a failed upload never leaves a readable blob behind.
func (s *LocalStore) Upload(ctx context.Context, path string, r io.Reader) error {
	full := s.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	f, err := os.Create(full)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

// Download opens the blob for reading
func (s *LocalStore) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the blob. Deleting a missing blob is not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	err := os.Remove(s.fullPath(path))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
