// ABOUTME: File-backed blob storage with one JSON document per key.
// ABOUTME: Writes go through a temp file and rename so a crash never leaves a torn blob.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileBlobStore stores each key as <dataDir>/<key>.json.
type FileBlobStore struct {
	dataDir string
}

// NewFileBlobStore creates a file store rooted at dataDir. The directory is created lazily on first save.
func NewFileBlobStore(dataDir string) (*FileBlobStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	return &FileBlobStore{dataDir: dataDir}, nil
}

// Path returns the file a key is stored in.
func (s *FileBlobStore) Path(key string) string {
	return filepath.Join(s.dataDir, key+".json")
}

// Save atomically replaces the file for key.
func (s *FileBlobStore) Save(ctx context.Context, key, blob string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomicWrite(s.Path(key), []byte(blob)); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

// Load reads the file for key.
func (s *FileBlobStore) Load(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return string(data), nil
}

// Close releases any resources held by the store.
func (s *FileBlobStore) Close() error {
	return nil
}

// atomicWrite writes data to a sibling temp file, syncs it, and renames it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
