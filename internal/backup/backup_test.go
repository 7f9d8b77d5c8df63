package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habhub/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habhub.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO habits (id, name) VALUES ('h1', 'Read'), ('h2', 'Walk')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM habits`).Scan(&n); err != nil {
		t.Fatalf("count habits: %v", err)
	}
	return n
}

// clockedManager returns a manager whose timestamps advance one minute per backup.
func clockedManager(dbPath string) *Manager {
	m := NewManager(dbPath)
	start := time.Date(2025, 1, 31, 8, 0, 0, 0, time.Local)
	calls := 0
	m.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Minute)
	}
	return m
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	path, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s", path)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "habhub-") || !strings.HasSuffix(name, ".db") {
		t.Errorf("unexpected backup name %s", name)
	}
	if got := countHabits(t, path); got != 2 {
		t.Errorf("backup has %d habits, want 2", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestCreateBackupSameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	fixed := time.Date(2025, 1, 31, 8, 0, 0, 0, time.Local)
	m.now = func() time.Time { return fixed }

	first, err := m.Create()
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := m.Create()
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if first == second {
		t.Fatal("backups in the same second must not overwrite each other")
	}
	if !strings.HasSuffix(second, "-1.db") {
		t.Errorf("second backup = %s, want counter suffix", second)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("List returned %d backups, want 2", len(backups))
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	if err := os.MkdirAll(m.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "habhub-latest.db", "other-20250101-000000.db"} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List = %+v, want none", backups)
	}
}

func TestListWithoutDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "habhub.db"))
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List = %+v", backups)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	m := clockedManager(dbPath)
	m.keep = 3

	var created []string
	for i := 0; i < 5; i++ {
		path, err := m.Create()
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		created = append(created, path)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("kept %d backups, want 3", len(backups))
	}
	if backups[0].Path != created[4] {
		t.Errorf("newest = %s, want %s", backups[0].Path, created[4])
	}
	for _, old := range created[:2] {
		if _, err := os.Stat(old); !os.IsNotExist(err) {
			t.Errorf("expected %s to be rotated out", old)
		}
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	m := clockedManager(dbPath)

	snapshot, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO habits (id, name) VALUES ('h3', 'Stretch')`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := m.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("restored database has %d habits, want 2", got)
	}
	if previous == "" {
		t.Fatal("Restore should back up the database it replaces")
	}
	if got := countHabits(t, previous); got != 3 {
		t.Errorf("pre-restore backup has %d habits, want 3", got)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "habhub-20250101-000000.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, padded to look like a file header"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Restore(bogus); err == nil {
		t.Fatal("expected error restoring an invalid backup")
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore: %d habits", got)
	}

	if _, err := m.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error restoring a missing backup")
	}
}
