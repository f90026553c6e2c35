// ABOUTME: Mood store owning the canonical in-memory mood list.
// ABOUTME: Mirrors every mutation to a blob store in the background and publishes snapshots to subscribers.
package mood

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/2389-research/moodlog/internal/models"
	"github.com/2389-research/moodlog/internal/storage"
)

// Store is the single source of truth for recorded moods. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	list  models.MoodList
	subs  map[int]chan models.MoodList
	subID int

	blobs  storage.BlobStore
	key    string
	writer *writer
	clock  func() time.Time
	log    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp new entries.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger sets the logger that records swallowed storage errors.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithKey overrides the storage key the envelope is saved under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates an empty store persisting to blobs and starts its background writer.
func New(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		list:  models.MoodList{},
		subs:  make(map[int]chan models.MoodList),
		blobs: blobs,
		key:   storage.DataKey,
		clock: time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(writerConfig{}, s.log)
	return s
}

// Select records mood with the current timestamp and returns the new entry.
// If the timestamp is already taken it is moved forward until it is unique.
func (s *Store) Select(mood models.MoodOption) models.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.NewMoodEntry(mood, s.clock())
	for s.list.Contains(entry.Timestamp) {
		s.log.Debug().Int64("timestamp", entry.Timestamp).Msg("timestamp collision, bumping")
		entry.Timestamp++
	}

	next := make(models.MoodList, len(s.list), len(s.list)+1)
	copy(next, s.list)
	s.list = append(next, entry)
	s.commitLocked()
	return entry
}

// Delete removes the entry whose timestamp equals entry.Timestamp. A miss is a no-op
// for the list but still rewrites storage.
func (s *Store) Delete(entry models.MoodEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = s.list.Without(entry.Timestamp)
	s.commitLocked()
}

// List returns a copy of the current list, oldest first.
func (s *Store) List() models.MoodList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Clone()
}

// Subscribe returns a channel that receives a snapshot after every change, starting with
// the current list. Slow readers only see the latest snapshot. Call the returned func to
// unsubscribe; the channel is closed then.
func (s *Store) Subscribe() (<-chan models.MoodList, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.subID
	s.subID++
	ch := make(chan models.MoodList, 1)
	ch <- s.list.Clone()
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Hydrate loads the persisted list and, if present and well-formed, replaces the in-memory
// list with it. It reports whether anything was applied. Storage errors are never returned.
func (s *Store) Hydrate(ctx context.Context) bool {
	blob, err := s.blobs.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Debug().Err(err).Msg("failed to load mood data")
		}
		return false
	}

	data, err := storage.DecodeAppData(blob)
	if err != nil {
		s.log.Debug().Err(err).Msg("ignoring unreadable mood data")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = data.MoodList
	s.publishLocked()
	return true
}

// Start hydrates in the background. The returned channel is closed once hydration has
// resolved, whether or not data was applied. Mutations made before then may be replaced.
func (s *Store) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Hydrate(ctx)
	}()
	return done
}

// Flush waits until every write queued so far has been attempted.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close drains pending writes and stops the writer. The blob store is left open.
func (s *Store) Close() error {
	s.writer.Stop()
	return nil
}

// commitLocked queues a write of the current list and notifies subscribers.
// Queuing under the lock keeps write order identical to mutation order.
func (s *Store) commitLocked() {
	snapshot := s.list.Clone()
	err := s.writer.Submit(func(ctx context.Context) error {
		blob, err := storage.EncodeAppData(models.AppData{MoodList: snapshot})
		if err != nil {
			return err
		}
		return s.blobs.Save(ctx, s.key, blob)
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("dropped mood data write")
	}
	s.publishLocked()
}

func (s *Store) publishLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.list.Clone()
	}
}
