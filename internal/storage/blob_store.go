// ABOUTME: Interface definition for durable key-value blob storage.
// ABOUTME: Defines the save/load contract the mood store persists its envelope through.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DataKey is the single key the whole AppData envelope is stored under.
const DataKey = "my-app-data"

// ErrNotFound is returned by Load when no blob exists for the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a dumb durable store of string blobs addressed by key.
// Every save replaces the previous value in full.
type BlobStore interface {
	// Save writes blob under key, replacing any previous value.
	Save(ctx context.Context, key, blob string) error

	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)

	// Close releases any resources held by the store.
	Close() error
}

// validateKey rejects keys that would escape a file-backed root or collide with temp files.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
