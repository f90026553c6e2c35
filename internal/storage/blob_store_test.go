// ABOUTME: Shared contract tests run against every BlobStore implementation.
// ABOUTME: Covers missing keys, overwrite semantics, and unicode round trips per backend.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// runBlobStoreContract exercises the behavior every backend must share.
func runBlobStoreContract(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx, DataKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, DataKey, `{"moodList":[]}`); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := store.Load(ctx, DataKey)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != `{"moodList":[]}` {
		t.Errorf("Load = %q", got)
	}

	blob := `{"moodList":[{"mood":{"emoji":"🥳","description":"celebratory"},"timestamp":1}]}`
	if err := store.Save(ctx, DataKey, blob); err != nil {
		t.Fatalf("second Save error: %v", err)
	}
	got, err = store.Load(ctx, DataKey)
	if err != nil {
		t.Fatalf("Load after overwrite error: %v", err)
	}
	if got != blob {
		t.Errorf("Load after overwrite = %q, want %q", got, blob)
	}

	if _, err := store.Load(ctx, "other-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(other-key): expected ErrNotFound, got %v", err)
	}
}

func TestMemoryBlobStoreContract(t *testing.T) {
	store := NewMemoryBlobStore()
	defer func() { _ = store.Close() }()
	runBlobStoreContract(t, store)
	if store.Saves() != 2 {
		t.Errorf("expected 2 saves, got %d", store.Saves())
	}
}

func TestFileBlobStoreContract(t *testing.T) {
	store, err := NewFileBlobStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileBlobStore error: %v", err)
	}
	defer func() { _ = store.Close() }()
	runBlobStoreContract(t, store)
}

func TestBadgerBlobStoreContract(t *testing.T) {
	store, err := NewBadgerBlobStore(filepath.Join(t.TempDir(), "badger"))
	if err != nil {
		t.Fatalf("NewBadgerBlobStore error: %v", err)
	}
	defer func() { _ = store.Close() }()
	runBlobStoreContract(t, store)
}

func TestSQLiteBlobStoreContract(t *testing.T) {
	store, err := NewSQLiteBlobStore(filepath.Join(t.TempDir(), "moods.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBlobStore error: %v", err)
	}
	defer func() { _ = store.Close() }()
	runBlobStoreContract(t, store)
}

func TestMirrorBlobStoreContract(t *testing.T) {
	store := NewMirrorBlobStore(NewMemoryBlobStore(), NewMemoryBlobStore())
	defer func() { _ = store.Close() }()
	runBlobStoreContract(t, store)
}

func TestMemoryBlobStoreFailures(t *testing.T) {
	store := NewMemoryBlobStore()
	ctx := context.Background()
	boom := errors.New("disk full")

	store.FailSaves(boom)
	if err := store.Save(ctx, DataKey, "x"); !errors.Is(err, boom) {
		t.Errorf("expected save failure, got %v", err)
	}
	store.FailSaves(nil)
	if err := store.Save(ctx, DataKey, "x"); err != nil {
		t.Errorf("expected save to recover, got %v", err)
	}

	store.FailLoads(boom)
	if _, err := store.Load(ctx, DataKey); !errors.Is(err, boom) {
		t.Errorf("expected load failure, got %v", err)
	}
}
