package entrywrite

import (
	"testing"

	"github.com/julianstephens/habhub/internal/models"
)

func TestCacheRollbackRemovesSynthesizedEntry(t *testing.T) {
	c := NewCache(nil)
	key := models.EntryKey{OwnerID: "u", HabitID: "h", DateKey: "2025-01-31"}

	snap := c.Apply(key, 1, true)
	if snap.Existed() {
		t.Error("snapshot should record that no entry existed")
	}
	if e, ok := c.Get(key); !ok || e.Count != 1 {
		t.Fatalf("optimistic entry = %+v, %v", e, ok)
	}

	c.Rollback(snap)
	if _, ok := c.Get(key); ok {
		t.Error("rollback should remove the synthesized entry")
	}
}

func TestCacheRollbackRestoresExactEntry(t *testing.T) {
	orig := models.Entry{OwnerID: "u", HabitID: "h", DateKey: "2025-01-31", Count: 0, Completed: true}
	c := NewCache([]models.Entry{orig})

	snap := c.Apply(orig.Key(), 5, true)
	if prev, ok := snap.Previous(); !ok || prev != orig {
		t.Errorf("snapshot previous = %+v, %v", prev, ok)
	}

	c.Rollback(snap)
	if got, ok := c.Get(orig.Key()); !ok || got != orig {
		t.Errorf("restored = %+v, want %+v", got, orig)
	}
}

func TestCacheEntriesSorted(t *testing.T) {
	c := NewCache([]models.Entry{
		{HabitID: "b", DateKey: "2025-01-02"},
		{HabitID: "a", DateKey: "2025-01-02"},
		{HabitID: "z", DateKey: "2025-01-01"},
	})
	got := c.Entries()
	want := []string{"z", "a", "b"}
	for i, e := range got {
		if e.HabitID != want[i] {
			t.Errorf("position %d = %s, want %s", i, e.HabitID, want[i])
		}
	}
}
