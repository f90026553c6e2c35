// ABOUTME: Blob store that writes to a primary store and a backup copy.
// ABOUTME: Loads prefer the primary and fall back to the backup when the primary has nothing.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// MirrorBlobStore pairs a local primary with a secondary backup (usually remote).
type MirrorBlobStore struct {
	primary BlobStore
	backup  BlobStore
}

// NewMirrorBlobStore wraps primary and backup.
func NewMirrorBlobStore(primary, backup BlobStore) *MirrorBlobStore {
	return &MirrorBlobStore{primary: primary, backup: backup}
}

// Save writes to the primary first. A backup failure is reported after the primary succeeds.
func (m *MirrorBlobStore) Save(ctx context.Context, key, blob string) error {
	if err := m.primary.Save(ctx, key, blob); err != nil {
		return err
	}
	if err := m.backup.Save(ctx, key, blob); err != nil {
		return fmt.Errorf("backup save failed: %w", err)
	}
	return nil
}

// Load reads from the primary, falling back to the backup only when the primary has no blob.
func (m *MirrorBlobStore) Load(ctx context.Context, key string) (string, error) {
	blob, err := m.primary.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return m.backup.Load(ctx, key)
	}
	return blob, err
}

// Close closes both stores.
func (m *MirrorBlobStore) Close() error {
	return errors.Join(m.primary.Close(), m.backup.Close())
}
