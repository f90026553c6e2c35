// ABOUTME: Tests for the mood store: mutations, persistence mirroring, hydration, and subscriptions.
// ABOUTME: Uses an in-memory blob store and a fake clock so timestamps are deterministic.
package mood

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/2389-research/moodlog/internal/models"
	"github.com/2389-research/moodlog/internal/storage"
)

// fakeClock returns a fixed time that tests advance by hand.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *storage.MemoryBlobStore, *fakeClock) {
	t.Helper()
	blobs := storage.NewMemoryBlobStore()
	clock := &fakeClock{now: time.UnixMilli(1700000000000)}
	store := New(blobs, WithClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })
	return store, blobs, clock
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
}

func persistedList(t *testing.T, blobs storage.BlobStore) models.MoodList {
	t.Helper()
	blob, err := blobs.Load(context.Background(), storage.DataKey)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	data, err := storage.DecodeAppData(blob)
	if err != nil {
		t.Fatalf("DecodeAppData error: %v", err)
	}
	return data.MoodList
}

func assertListsEqual(t *testing.T, got, want models.MoodList) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("list length = %d, want %d\n got: %+v\nwant: %+v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSelectDeleteScenario(t *testing.T) {
	store, blobs, clock := newTestStore(t)
	moodA := models.MoodOption{Emoji: "😀", Description: "Happy"}
	moodB := models.MoodOptions[3]

	a := store.Select(moodA)
	flush(t, store)
	assertListsEqual(t, store.List(), models.MoodList{a})
	assertListsEqual(t, persistedList(t, blobs), store.List())

	clock.Advance(time.Second)
	b := store.Select(moodB)
	flush(t, store)
	assertListsEqual(t, store.List(), models.MoodList{a, b})
	assertListsEqual(t, persistedList(t, blobs), store.List())

	store.Delete(models.MoodEntry{Timestamp: a.Timestamp})
	flush(t, store)
	assertListsEqual(t, store.List(), models.MoodList{b})
	assertListsEqual(t, persistedList(t, blobs), store.List())

	if a.Timestamp != 1700000000000 {
		t.Errorf("expected first entry stamped by clock, got %d", a.Timestamp)
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	store, _, clock := newTestStore(t)
	store.Select(models.MoodOptions[0])
	clock.Advance(time.Millisecond)
	store.Select(models.MoodOptions[1])
	before := store.List()

	store.Delete(models.MoodEntry{Timestamp: 12345})
	assertListsEqual(t, store.List(), before)

	store.Delete(models.MoodEntry{Timestamp: 12345})
	assertListsEqual(t, store.List(), before)
}

func TestSameMillisecondSelectsKeepBoth(t *testing.T) {
	store, blobs, _ := newTestStore(t)

	first := store.Select(models.MoodOptions[0])
	second := store.Select(models.MoodOptions[1])
	third := store.Select(models.MoodOptions[2])

	if second.Timestamp != first.Timestamp+1 || third.Timestamp != first.Timestamp+2 {
		t.Errorf("expected bumped timestamps, got %d, %d, %d", first.Timestamp, second.Timestamp, third.Timestamp)
	}
	flush(t, store)
	assertListsEqual(t, persistedList(t, blobs), models.MoodList{first, second, third})

	store.Delete(second)
	assertListsEqual(t, store.List(), models.MoodList{first, third})
}

// TestReplayMatchesReferenceModel checks random select/delete sequences against a plain
// append/filter model.
func TestReplayMatchesReferenceModel(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		store, blobs, clock := newTestStore(t)
		var model models.MoodList

		for step := 0; step < 60; step++ {
			if rng.Intn(3) > 0 || len(model) == 0 {
				clock.Advance(time.Duration(1+rng.Intn(5)) * time.Millisecond)
				opt := models.MoodOptions[rng.Intn(len(models.MoodOptions))]
				entry := store.Select(opt)
				model = append(model, entry)
				continue
			}

			var target int64
			if rng.Intn(4) == 0 {
				target = -1 - int64(rng.Intn(100))
			} else {
				target = model[rng.Intn(len(model))].Timestamp
			}
			store.Delete(models.MoodEntry{Timestamp: target})
			filtered := models.MoodList{}
			for _, e := range model {
				if e.Timestamp != target {
					filtered = append(filtered, e)
				}
			}
			model = filtered
		}

		assertListsEqual(t, store.List(), model)
		flush(t, store)
		assertListsEqual(t, persistedList(t, blobs), model)
	}
}

func TestHydrateReplacesList(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	saved := models.MoodList{
		{Mood: models.MoodOptions[1], Timestamp: 10},
		{Mood: models.MoodOptions[2], Timestamp: 20},
	}
	blob, _ := storage.EncodeAppData(models.AppData{MoodList: saved})
	_ = blobs.Save(context.Background(), storage.DataKey, blob)

	store := New(blobs)
	defer func() { _ = store.Close() }()

	if !store.Hydrate(context.Background()) {
		t.Fatal("expected Hydrate to apply saved data")
	}
	assertListsEqual(t, store.List(), saved)
}

func TestHydrateCorruptDataLeavesEmptyList(t *testing.T) {
	for _, blob := range []string{"{not json", `{"moodList":"x"}`, `[1,2,3]`, ""} {
		blobs := storage.NewMemoryBlobStore()
		_ = blobs.Save(context.Background(), storage.DataKey, blob)

		store := New(blobs)
		if store.Hydrate(context.Background()) {
			t.Errorf("Hydrate should ignore %q", blob)
		}
		if got := store.List(); len(got) != 0 {
			t.Errorf("expected empty list for %q, got %+v", blob, got)
		}
		_ = store.Close()
	}
}

func TestHydrateMissingAndFailingStorage(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	store := New(blobs)
	defer func() { _ = store.Close() }()

	if store.Hydrate(context.Background()) {
		t.Error("Hydrate with no data should report nothing applied")
	}

	blobs.FailLoads(errors.New("permission denied"))
	if store.Hydrate(context.Background()) {
		t.Error("Hydrate with failing storage should report nothing applied")
	}
	if len(store.List()) != 0 {
		t.Error("expected empty list")
	}
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	store, blobs, _ := newTestStore(t)
	blobs.FailSaves(errors.New("disk full"))

	entry := store.Select(models.MoodOptions[0])
	flush(t, store)
	assertListsEqual(t, store.List(), models.MoodList{entry})

	blobs.FailSaves(nil)
	store.Delete(entry)
	flush(t, store)
	assertListsEqual(t, persistedList(t, blobs), models.MoodList{})
}

func seededBlobs(t *testing.T, list models.MoodList) *storage.MemoryBlobStore {
	t.Helper()
	blobs := storage.NewMemoryBlobStore()
	blob, err := storage.EncodeAppData(models.AppData{MoodList: list})
	if err != nil {
		t.Fatalf("EncodeAppData error: %v", err)
	}
	if err := blobs.Save(context.Background(), storage.DataKey, blob); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	return blobs
}

func TestStartHydrationReplacesEarlySelection(t *testing.T) {
	saved := models.MoodList{{Mood: models.MoodOptions[4], Timestamp: 5}}
	gated := newGatedBlobStore(seededBlobs(t, saved))

	store := New(gated)
	defer func() { _ = store.Close() }()

	done := store.Start(context.Background())
	early := store.Select(models.MoodOptions[0])
	close(gated.loadGate)
	<-done

	assertListsEqual(t, store.List(), saved)

	// The early write was held until the load returned, so it lands afterwards.
	flush(t, store)
	assertListsEqual(t, persistedList(t, gated.BlobStore), models.MoodList{early})
	if got := gated.order(); len(got) != 2 || got[0] != "load" || got[1] != "save" {
		t.Errorf("operation order = %v, want [load save]", got)
	}
}

func TestStartHydrationAfterEarlyWriteLoadsIt(t *testing.T) {
	saved := models.MoodList{{Mood: models.MoodOptions[4], Timestamp: 5}}
	gated := newGatedBlobStore(seededBlobs(t, saved))
	// Saves pass straight through; only the load waits.
	close(gated.saveGate)

	store := New(gated)
	defer func() { _ = store.Close() }()

	done := store.Start(context.Background())
	early := store.Select(models.MoodOptions[0])
	flush(t, store)
	close(gated.loadGate)
	<-done

	// The early write replaced the stored history before the load read it.
	assertListsEqual(t, store.List(), models.MoodList{early})
	assertListsEqual(t, persistedList(t, gated.BlobStore), models.MoodList{early})
}

// gatedBlobStore holds loads until loadGate closes. Saves wait for saveGate,
// which closes on its own once a load has returned.
type gatedBlobStore struct {
	storage.BlobStore
	loadGate chan struct{}
	saveGate chan struct{}
	once     sync.Once

	mu  sync.Mutex
	ops []string
}

func newGatedBlobStore(inner storage.BlobStore) *gatedBlobStore {
	return &gatedBlobStore{
		BlobStore: inner,
		loadGate:  make(chan struct{}),
		saveGate:  make(chan struct{}),
	}
}

func (g *gatedBlobStore) Load(ctx context.Context, key string) (string, error) {
	<-g.loadGate
	blob, err := g.BlobStore.Load(ctx, key)
	g.record("load")
	g.once.Do(func() {
		select {
		case <-g.saveGate:
		default:
			close(g.saveGate)
		}
	})
	return blob, err
}

func (g *gatedBlobStore) Save(ctx context.Context, key, blob string) error {
	select {
	case <-g.saveGate:
	case <-ctx.Done():
		return ctx.Err()
	}
	err := g.BlobStore.Save(ctx, key, blob)
	g.record("save")
	return err
}

func (g *gatedBlobStore) record(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ops = append(g.ops, op)
}

func (g *gatedBlobStore) order() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ops...)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	store, _, clock := newTestStore(t)
	updates, unsubscribe := store.Subscribe()

	initial := <-updates
	if len(initial) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	entry := store.Select(models.MoodOptions[2])
	select {
	case got := <-updates:
		assertListsEqual(t, got, models.MoodList{entry})
	case <-time.After(time.Second):
		t.Fatal("expected snapshot after Select")
	}

	// Several quick mutations collapse to the latest snapshot for a slow reader.
	clock.Advance(time.Millisecond)
	second := store.Select(models.MoodOptions[3])
	store.Delete(entry)
	got := <-updates
	assertListsEqual(t, got, models.MoodList{second})

	unsubscribe()
	if _, ok := <-updates; ok {
		t.Error("expected channel to be closed after unsubscribe")
	}
	unsubscribe()
}

func TestListReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Select(models.MoodOptions[0])

	list := store.List()
	list[0].Timestamp = 99
	if store.List()[0].Timestamp == 99 {
		t.Error("List must return a copy")
	}
}

func TestCloseFlushesPendingWrites(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	store := New(blobs)

	entry := store.Select(models.MoodOptions[1])
	if err := store.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	assertListsEqual(t, persistedList(t, blobs), models.MoodList{entry})

	// Mutations after Close still update memory but are not persisted.
	store.Delete(entry)
	if len(store.List()) != 0 {
		t.Error("expected in-memory delete after Close")
	}
}

func TestWithKey(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	store := New(blobs, WithKey("other"))
	store.Select(models.MoodOptions[0])
	_ = store.Close()

	if _, err := blobs.Load(context.Background(), "other"); err != nil {
		t.Errorf("expected blob under custom key: %v", err)
	}
	if _, err := blobs.Load(context.Background(), storage.DataKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected nothing under default key, got %v", err)
	}
}
