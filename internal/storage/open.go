// ABOUTME: Opens the configured blob store backend and layers the optional remote backup.
// ABOUTME: Used by the CLI so every command shares one storage setup.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2389-research/moodlog/internal/config"
)

// File and directory names inside the data dir, one per backend.
const (
	fileDirName    = "blobs"
	badgerDirName  = "badger"
	sqliteFileName = "moodlog.db"
)

// Open returns the blob store described by cfg. When a remote backup is configured,
// the local store is mirrored to it.
func Open(cfg *config.Config) (BlobStore, error) {
	local, err := openLocal(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.HasRemote() {
		return local, nil
	}
	remote := NewRemoteBlobStore(cfg.Remote.APIURL, cfg.Remote.APIKey, cfg.Remote.TeamID)
	return NewMirrorBlobStore(local, remote), nil
}

func openLocal(cfg *config.Config) (BlobStore, error) {
	backend := cfg.StorageBackend()
	if backend == config.BackendMemory {
		return NewMemoryBlobStore(), nil
	}

	dataDir, err := cfg.GetDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	var (
		store   BlobStore
		openErr error
	)
	switch backend {
	case config.BackendFile:
		store, openErr = NewFileBlobStore(filepath.Join(dataDir, fileDirName))
	case config.BackendBadger:
		store, openErr = NewBadgerBlobStore(filepath.Join(dataDir, badgerDirName))
	case config.BackendSQLite:
		store, openErr = NewSQLiteBlobStore(filepath.Join(dataDir, sqliteFileName))
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
	if openErr != nil {
		return nil, openErr
	}
	return store, nil
}
