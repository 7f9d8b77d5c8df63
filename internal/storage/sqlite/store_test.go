package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testHabit(id, name string, order int) models.Habit {
	return models.Habit{
		ID:          id,
		OwnerID:     "u",
		Name:        name,
		Description: "desc " + name,
		Schedule:    models.WeeklySchedule{WeekDays: []int{1, 3, 5}},
		GoalCount:   2,
		AccentColor: "#ff0000",
		SortOrder:   order,
		CreatedAt:   time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("expected Load to fail before Init")
	}
}

func TestSchemaVersion(t *testing.T) {
	if _, _, err := NewStore(filepath.Join(t.TempDir(), "x.db")).SchemaVersion(); err == nil {
		t.Error("expected an error before the store is loaded")
	}

	store := setupTestStore(t)
	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if current == 0 || current != latest {
		t.Errorf("fresh store at version %d of %d", current, latest)
	}
}

func TestHabitRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	h := testHabit("h1", "Read", 0)
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	got, err := store.GetHabit("u", "h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Read" || got.GoalCount != 2 || got.AccentColor != "#ff0000" || got.Description != "desc Read" {
		t.Errorf("unexpected habit: %+v", got)
	}
	weekly, ok := got.Schedule.(models.WeeklySchedule)
	if !ok || len(weekly.WeekDays) != 3 {
		t.Errorf("schedule = %#v", got.Schedule)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, h.CreatedAt)
	}

	if _, err := store.GetHabit("other-owner", "h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("habit should be scoped to owner, got %v", err)
	}

	byName, err := store.GetHabitByName("u", "Read")
	if err != nil || byName.ID != "h1" {
		t.Errorf("GetHabitByName = %+v, %v", byName, err)
	}
}

func TestListHabitsOrderAndArchive(t *testing.T) {
	store := setupTestStore(t)
	for i, name := range []string{"c", "a", "b"} {
		h := testHabit(name, name, 2-i)
		if err := store.AddHabit(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SetArchived("u", "a", true); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}

	active, err := store.ListHabits("u", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 || active[0].ID != "b" || active[1].ID != "c" {
		t.Errorf("active = %v", ids(active))
	}

	all, err := store.ListHabits("u", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all = %v", ids(all))
	}

	if err := store.SetArchived("u", "missing", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("archiving unknown habit should be not found, got %v", err)
	}
}

func TestUpdateSortOrders(t *testing.T) {
	store := setupTestStore(t)
	var habits []models.Habit
	for i, id := range []string{"a", "b", "c"} {
		h := testHabit(id, id, i)
		habits = append(habits, h)
		if err := store.AddHabit(h); err != nil {
			t.Fatal(err)
		}
	}

	plan := progress.BuildReorderPlan(habits, "b", progress.MoveUp)
	if err := store.UpdateSortOrders("u", plan.Updates); err != nil {
		t.Fatalf("UpdateSortOrders failed: %v", err)
	}

	got, _ := store.ListHabits("u", false)
	want := []string{"b", "a", "c"}
	for i, h := range got {
		if h.ID != want[i] || h.SortOrder != i {
			t.Errorf("position %d = %s(%d), want %s(%d)", i, h.ID, h.SortOrder, want[i], i)
		}
	}
}

func TestUpdateHabit(t *testing.T) {
	store := setupTestStore(t)
	h := testHabit("h1", "Read", 0)
	if err := store.AddHabit(h); err != nil {
		t.Fatal(err)
	}
	h.Name = "Read more"
	h.Schedule = models.FlexibleSchedule{Interval: constants.IntervalMonth, TargetCount: 4}
	if err := store.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, _ := store.GetHabit("u", "h1")
	flex, ok := got.Schedule.(models.FlexibleSchedule)
	if got.Name != "Read more" || !ok || flex.TargetCount != 4 || flex.Interval != constants.IntervalMonth {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestEntryPrimitives(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	key := models.EntryKey{OwnerID: "u", HabitID: "h1", DateKey: "2025-01-31"}
	done := true

	matched, err := store.UpdateEntry(ctx, key, storage.EntryValues{Count: 1, Completed: &done})
	if err != nil || matched {
		t.Fatalf("update of missing entry = %v, %v", matched, err)
	}

	if err := store.InsertEntry(ctx, key, storage.EntryValues{Count: 1, Completed: &done}); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	err = store.InsertEntry(ctx, key, storage.EntryValues{Count: 2})
	if storage.KindOf(err) != storage.KindDuplicateKey {
		t.Errorf("second insert should be a duplicate key, got %v", err)
	}

	if err := store.UpsertEntry(ctx, key, storage.EntryValues{Count: 3}); err != nil {
		t.Fatalf("UpsertEntry failed: %v", err)
	}

	got, err := store.GetEntry(key)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 3 || !got.Completed {
		t.Errorf("entry = %+v", got)
	}

	if _, err := store.GetEntry(models.EntryKey{OwnerID: "u", HabitID: "h1", DateKey: "2025-01-01"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing entry should be not found, got %v", err)
	}
}

func TestListEntriesRange(t *testing.T) {
	store := setupTestStore(t)
	entries := []models.Entry{
		{OwnerID: "u", HabitID: "h", DateKey: "2025-01-01", Count: 1, Completed: true},
		{OwnerID: "u", HabitID: "h", DateKey: "2025-01-15", Count: 1, Completed: true},
		{OwnerID: "u", HabitID: "h", DateKey: "2025-02-01", Count: 1, Completed: true},
		{OwnerID: "other", HabitID: "h", DateKey: "2025-01-15", Count: 1},
	}
	if err := store.UpsertEntries(entries); err != nil {
		t.Fatal(err)
	}

	got, err := store.ListEntries("u", "2025-01-10", "2025-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].DateKey != "2025-01-15" {
		t.Errorf("ranged entries = %+v", got)
	}

	all, _ := store.ListEntries("u", "", "")
	if len(all) != 3 {
		t.Errorf("open range returned %d entries", len(all))
	}
}

func TestSettings(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetSettings("u"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found before ensure, got %v", err)
	}

	settings, err := store.EnsureSettings("u")
	if err != nil {
		t.Fatal(err)
	}
	if settings.WeekStart != 1 || settings.Language != "en" || settings.MigrationDone {
		t.Errorf("defaults = %+v", settings)
	}

	settings.WeekStart = 0
	settings.Language = "ja"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	again, _ := store.EnsureSettings("u")
	if again.WeekStart != 0 || again.Language != "ja" {
		t.Errorf("EnsureSettings overwrote saved settings: %+v", again)
	}

	if err := store.MarkMigrationDone("u"); err != nil {
		t.Fatal(err)
	}
	final, _ := store.GetSettings("u")
	if !final.MigrationDone {
		t.Error("migration flag not set")
	}
}

func TestUpsertHabitsReplacesExisting(t *testing.T) {
	store := setupTestStore(t)
	h := testHabit("h1", "Read", 0)
	if err := store.AddHabit(h); err != nil {
		t.Fatal(err)
	}
	h.Name = "Imported"
	h.Schedule = models.OnceSchedule{TargetDate: "2025-03-01"}
	if err := store.UpsertHabits([]models.Habit{h, testHabit("h2", "New", 1)}); err != nil {
		t.Fatal(err)
	}
	all, _ := store.ListHabits("u", true)
	if len(all) != 2 || all[0].Name != "Imported" || !all[0].IsOnce() {
		t.Errorf("habits after import = %+v", all)
	}
}

func ids(habits []models.Habit) []string {
	var out []string
	for _, h := range habits {
		out = append(out, h.ID)
	}
	return out
}

func TestUpsertEntries_LegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE entries (
		user_id TEXT NOT NULL, habit_id TEXT NOT NULL, date_key TEXT NOT NULL, count INTEGER NOT NULL DEFAULT 0)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	store := NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	batch := []models.Entry{
		{OwnerID: "u", HabitID: "h1", DateKey: "2025-01-01", Count: 1, Completed: true},
		{OwnerID: "u", HabitID: "h2", DateKey: "2025-01-01", Count: 2},
	}
	if err := store.UpsertEntries(batch); err != nil {
		t.Fatalf("UpsertEntries on legacy schema: %v", err)
	}
	// a second import updates in place
	batch[0].Count = 3
	if err := store.UpsertEntries(batch[:1]); err != nil {
		t.Fatalf("second UpsertEntries: %v", err)
	}

	entries, err := store.ListEntries("u", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows, got %+v", entries)
	}
	if entries[0].HabitID != "h1" || entries[0].Count != 3 || entries[0].Completed {
		t.Errorf("unexpected h1 row: %+v", entries[0])
	}
}
