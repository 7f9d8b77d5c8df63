package models

// EntryKey is the composite identity of an entry: one per habit per day.
type EntryKey struct {
	OwnerID string
	HabitID string
	DateKey string
}

// Entry is one (habit, day) completion record.
type Entry struct {
	OwnerID string `json:"user_id"`
	HabitID string `json:"habit_id"`
	DateKey string `json:"date_key"`
	Count   int    `json:"count"`
	// Completed mirrors Count >= goal. Legacy stores may not have it.
	Completed bool `json:"completed"`
}

// Key returns the entry's composite identity.
func (e Entry) Key() EntryKey {
	return EntryKey{OwnerID: e.OwnerID, HabitID: e.HabitID, DateKey: e.DateKey}
}

// FindEntry returns the entry for habitID on day, if present.
func FindEntry(entries []Entry, habitID, day string) (Entry, bool) {
	for _, e := range entries {
		if e.HabitID == habitID && e.DateKey == day {
			return e, true
		}
	}
	return Entry{}, false
}
