// ABOUTME: BadgerDB-backed blob storage.
// ABOUTME: Each key maps to one badger value; saves run in a single update transaction.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlobStore persists blobs in an embedded BadgerDB directory.
type BadgerBlobStore struct {
	db *badger.DB
}

// NewBadgerBlobStore opens (or creates) a badger database in dirPath.
func NewBadgerBlobStore(dirPath string) (*BadgerBlobStore, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerBlobStore{db: db}, nil
}

// Save writes blob under key.
func (s *BadgerBlobStore) Save(ctx context.Context, key, blob string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(blob))
	})
}

// Load returns the blob stored under key.
func (s *BadgerBlobStore) Load(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var blob string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			blob = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return blob, nil
}

// Close closes the badger database.
func (s *BadgerBlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
