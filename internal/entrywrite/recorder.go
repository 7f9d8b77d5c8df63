package entrywrite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/storage"
)

var (
	// ErrWriteInFlight is returned when a write to the same habit and day
	// has not finished yet.
	ErrWriteInFlight = errors.New("a write for this habit and day is already in progress")
	// ErrNothingToRetry is returned by Retry when no write has failed.
	ErrNothingToRetry = errors.New("no failed write to retry")
)

// Failure is what Retry needs to replay a failed write.
type Failure struct {
	Habit   models.Habit
	DateKey string
	Count   int
	Err     error
}

// Recorder applies count changes optimistically to a Cache, persists them
// and rolls the cache back when the write fails.
type Recorder struct {
	store   storage.EntryWriter
	session session.Provider
	cache   *Cache

	mu       sync.Mutex
	inFlight map[models.EntryKey]struct{}
	failure  *Failure
}

func NewRecorder(store storage.EntryWriter, sp session.Provider, cache *Cache) *Recorder {
	return &Recorder{
		store:    store,
		session:  sp,
		cache:    cache,
		inFlight: make(map[models.EntryKey]struct{}),
	}
}

// Cache returns the cache the recorder writes through.
func (r *Recorder) Cache() *Cache {
	return r.cache
}

// Bump adds delta to the day's count, flooring at zero.
func (r *Recorder) Bump(ctx context.Context, habit models.Habit, day string, delta int) (models.Entry, error) {
	p, err := r.BeginBump(ctx, habit, day, delta)
	return commit(ctx, p, err)
}

// Toggle resets a done day to zero or completes a not-done one.
func (r *Recorder) Toggle(ctx context.Context, habit models.Habit, day string) (models.Entry, error) {
	p, err := r.BeginToggle(ctx, habit, day)
	return commit(ctx, p, err)
}

// Set writes an explicit count.
func (r *Recorder) Set(ctx context.Context, habit models.Habit, day string, count int) (models.Entry, error) {
	p, err := r.BeginSet(ctx, habit, day, count)
	return commit(ctx, p, err)
}

// Retry replays the last failed write with the same target count.
func (r *Recorder) Retry(ctx context.Context) (models.Entry, error) {
	p, err := r.BeginRetry(ctx)
	return commit(ctx, p, err)
}

func commit(ctx context.Context, p *Pending, err error) (models.Entry, error) {
	if err != nil {
		return models.Entry{}, err
	}
	return p.Commit(ctx)
}

// BeginBump applies a bump to the cache and returns the write that
// persists it.
func (r *Recorder) BeginBump(ctx context.Context, habit models.Habit, day string, delta int) (*Pending, error) {
	return r.begin(ctx, habit, day, func(prev *models.Entry) int {
		return progress.NextCountFromBump(prev, habit, delta)
	})
}

func (r *Recorder) BeginToggle(ctx context.Context, habit models.Habit, day string) (*Pending, error) {
	return r.begin(ctx, habit, day, func(prev *models.Entry) int {
		return progress.NextCountFromToggle(prev, habit)
	})
}

func (r *Recorder) BeginSet(ctx context.Context, habit models.Habit, day string, count int) (*Pending, error) {
	return r.begin(ctx, habit, day, func(*models.Entry) int {
		return max(0, count)
	})
}

func (r *Recorder) BeginRetry(ctx context.Context) (*Pending, error) {
	f, ok := r.LastFailure()
	if !ok {
		return nil, ErrNothingToRetry
	}
	return r.BeginSet(ctx, f.Habit, f.DateKey, f.Count)
}

// LastFailure returns the most recent failed write, if any.
func (r *Recorder) LastFailure() (Failure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure == nil {
		return Failure{}, false
	}
	return *r.failure, true
}

// Pending is a count already applied to the cache whose write has not run.
// Its key stays claimed until Commit is called, and Commit must be called
// exactly once.
type Pending struct {
	r        *Recorder
	habit    models.Habit
	key      models.EntryKey
	prev     *models.Entry
	entry    models.Entry
	snapshot Snapshot

	// unchanged writes skip the store
	unchanged bool
}

// Entry returns the optimistic entry the cache now holds.
func (p *Pending) Entry() models.Entry {
	return p.entry
}

// Commit persists the applied count. On failure the cache is rolled back
// and the failure is kept for Retry.
func (p *Pending) Commit(ctx context.Context) (models.Entry, error) {
	r := p.r
	defer r.release(p.key)
	if p.unchanged {
		return p.entry, nil
	}

	completed := p.entry.Completed
	values := storage.EntryValues{Count: p.entry.Count, Completed: &completed}
	result := Persist(ctx, StoreDriver(r.store, p.key), values, values.Legacy())

	if !result.OK {
		r.cache.Rollback(p.snapshot)
		err := result.Error()
		r.setFailure(&Failure{Habit: p.habit, DateKey: p.key.DateKey, Count: p.entry.Count, Err: err})
		if p.prev != nil {
			return *p.prev, err
		}
		return models.Entry{}, err
	}

	r.clearFailure(p.key)
	entry, _ := r.cache.Get(p.key)
	return entry, nil
}

func (r *Recorder) begin(ctx context.Context, habit models.Habit, day string, next func(*models.Entry) int) (*Pending, error) {
	owner, err := r.session.OwnerID(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot record %s: %w", habit.Name, err)
	}
	key := models.EntryKey{OwnerID: owner, HabitID: habit.ID, DateKey: day}

	if !r.acquire(key) {
		return nil, ErrWriteInFlight
	}

	p := &Pending{r: r, habit: habit, key: key}
	if e, ok := r.cache.Get(key); ok {
		p.prev = &e
	}
	count := next(p.prev)
	completed := progress.CompletedFor(count, habit)

	if p.prev != nil && p.prev.Count == count && p.prev.Completed == completed {
		p.entry = *p.prev
		p.unchanged = true
		return p, nil
	}

	p.snapshot = r.cache.Apply(key, count, completed)
	p.entry, _ = r.cache.Get(key)
	return p, nil
}

func (r *Recorder) acquire(key models.EntryKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[key]; busy {
		return false
	}
	r.inFlight[key] = struct{}{}
	return true
}

func (r *Recorder) release(key models.EntryKey) {
	r.mu.Lock()
	delete(r.inFlight, key)
	r.mu.Unlock()
}

func (r *Recorder) setFailure(f *Failure) {
	r.mu.Lock()
	r.failure = f
	r.mu.Unlock()
}

func (r *Recorder) clearFailure(key models.EntryKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil && r.failure.Habit.ID == key.HabitID && r.failure.DateKey == key.DateKey {
		r.failure = nil
	}
}
