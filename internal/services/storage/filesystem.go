package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilesystemBackend implements Backend on the local filesystem
type FilesystemBackend struct {
	basePath string
}

// NewFilesystemBackend creates a new filesystem storage backend
func NewFilesystemBackend(basePath string) (Backend, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FilesystemBackend{basePath: basePath}, nil
}

// Put stores data under a content-addressed key. An existing key wins:
// identical content has already been written, so the stored object is
// simply referenced again.
func (fs *FilesystemBackend) Put(ctx context.Context, key string, data io.Reader) (string, error) {
	fullPath := filepath.Join(fs.basePath, key)

	if _, err := os.Stat(fullPath); err == nil {
		return fullPath, nil
	}

	// Write through a temp file so a failed copy never leaves a partial
	// object at the addressed key
	tmp, err := os.CreateTemp(fs.basePath, "upload_*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize object: %w", err)
	}

	return fullPath, nil
}

// Open loads a stored object
func (fs *FilesystemBackend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(fs.basePath, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

// Exists checks if an object exists
func (fs *FilesystemBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(fs.basePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Delete removes an object
func (fs *FilesystemBackend) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(fs.basePath, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
