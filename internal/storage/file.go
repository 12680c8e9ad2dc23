package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore implements the Store interface with one file per key
type FileStore struct {
	basePath string
	quota    int64
}

// NewFileStore creates a new FileStore rooted at basePath
func NewFileStore(basePath string, quota int64) (*FileStore, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &FileStore{
		basePath: basePath,
		quota:    quota,
	}, nil
}

// path maps a key to a file inside basePath. Keys are escaped so they can
// never traverse out of the directory.
func (f *FileStore) path(key string) string {
	return filepath.Join(f.basePath, url.PathEscape(key)+".json")
}

// Read retrieves the value stored under key
func (f *FileStore) Read(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading file: %w", err)
	}
	return string(data), true, nil
}

// Write stores value under key, replacing the file atomically
func (f *FileStore) Write(key, value string) error {
	if err := checkQuota(f.quota, key, value); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.basePath, ".write-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}
