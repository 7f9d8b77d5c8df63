package storage

import (
	"context"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
)

// EntryValues is the payload of one entry write. A nil Completed leaves
// the completed column out of the statement, which is the shape legacy
// schemas accept.
type EntryValues struct {
	Count     int
	Completed *bool
}

// Legacy returns the count-only form of v.
func (v EntryValues) Legacy() EntryValues {
	return EntryValues{Count: v.Count}
}

// EntryWriter is the set of primitive entry writes the write protocol
// composes. Errors are *StoreError values.
type EntryWriter interface {
	UpsertEntry(ctx context.Context, key models.EntryKey, v EntryValues) error
	// UpdateEntry reports whether a row matched the key.
	UpdateEntry(ctx context.Context, key models.EntryKey, v EntryValues) (bool, error)
	InsertEntry(ctx context.Context, key models.EntryKey, v EntryValues) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings(ownerID string) (models.UserSettings, error)
	EnsureSettings(ownerID string) (models.UserSettings, error)
	SaveSettings(models.UserSettings) error
	MarkMigrationDone(ownerID string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(ownerID, id string) (models.Habit, error)
	GetHabitByName(ownerID, name string) (models.Habit, error)
	// ListHabits returns habits in display order.
	ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	SetArchived(ownerID, id string, archived bool) error
	// UpdateSortOrders writes every update in one transaction.
	UpdateSortOrders(ownerID string, updates []progress.SortUpdate) error

	// Entries
	GetEntry(key models.EntryKey) (models.Entry, error)
	// ListEntries returns entries with start <= date_key <= end. Empty
	// bounds are open.
	ListEntries(ownerID, start, end string) ([]models.Entry, error)
	EntryWriter

	// Bulk upserts for import
	UpsertHabits([]models.Habit) error
	UpsertEntries([]models.Entry) error

	// Utils
	GetConfigPath() string
}
