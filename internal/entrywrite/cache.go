package entrywrite

import (
	"cmp"
	"slices"
	"sync"

	"github.com/julianstephens/habhub/internal/models"
)

// Snapshot is the cache state of one key before an optimistic apply.
// existed distinguishes "no entry" from "entry with a count of zero".
type Snapshot struct {
	key     models.EntryKey
	prev    models.Entry
	existed bool
}

// Existed reports whether an entry was cached before the apply.
func (s Snapshot) Existed() bool { return s.existed }

// Previous returns the entry cached before the apply, if any.
func (s Snapshot) Previous() (models.Entry, bool) { return s.prev, s.existed }

// Cache is the in-memory copy of an owner's entries that the UI reads.
type Cache struct {
	mu      sync.RWMutex
	entries map[models.EntryKey]models.Entry
}

func NewCache(entries []models.Entry) *Cache {
	c := &Cache{}
	c.Replace(entries)
	return c
}

// Replace swaps the cached entries for a fresh load.
func (c *Cache) Replace(entries []models.Entry) {
	m := make(map[models.EntryKey]models.Entry, len(entries))
	for _, e := range entries {
		m[e.Key()] = e
	}
	c.mu.Lock()
	c.entries = m
	c.mu.Unlock()
}

func (c *Cache) Get(key models.EntryKey) (models.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Apply stores count and completed for key, creating the entry when
// needed, and returns what was there before.
func (c *Cache) Apply(key models.EntryKey, count int, completed bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, existed := c.entries[key]
	c.entries[key] = models.Entry{
		OwnerID:   key.OwnerID,
		HabitID:   key.HabitID,
		DateKey:   key.DateKey,
		Count:     count,
		Completed: completed,
	}
	return Snapshot{key: key, prev: prev, existed: existed}
}

// Rollback restores the exact prior entry or removes a synthesized one.
func (c *Cache) Rollback(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.existed {
		c.entries[s.key] = s.prev
		return
	}
	delete(c.entries, s.key)
}

// Entries returns the cached entries ordered by day then habit.
func (c *Cache) Entries() []models.Entry {
	c.mu.RLock()
	out := make([]models.Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Entry) int {
		return cmp.Or(cmp.Compare(a.DateKey, b.DateKey), cmp.Compare(a.HabitID, b.HabitID))
	})
	return out
}
