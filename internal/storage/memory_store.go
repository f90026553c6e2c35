// ABOUTME: In-memory blob storage for tests and throwaway sessions.
// ABOUTME: Can be told to fail saves or loads to exercise error-swallowing callers.
package storage

import (
	"context"
	"sync"
)

// MemoryBlobStore keeps blobs in a map.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	blobs   map[string]string
	saves   int
	saveErr error
	loadErr error
}

// NewMemoryBlobStore creates an empty in-memory store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]string)}
}

// Save stores blob under key.
func (s *MemoryBlobStore) Save(ctx context.Context, key, blob string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.blobs[key] = blob
	s.saves++
	return nil
}

// Load returns the blob stored under key.
func (s *MemoryBlobStore) Load(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadErr != nil {
		return "", s.loadErr
	}
	blob, ok := s.blobs[key]
	if !ok {
		return "", ErrNotFound
	}
	return blob, nil
}

// Saves returns how many saves have succeeded.
func (s *MemoryBlobStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes subsequent saves return err (nil restores normal behavior).
func (s *MemoryBlobStore) FailSaves(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

// FailLoads makes subsequent loads return err (nil restores normal behavior).
func (s *MemoryBlobStore) FailLoads(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// Close releases any resources held by the store.
func (s *MemoryBlobStore) Close() error {
	return nil
}
