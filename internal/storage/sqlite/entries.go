package sqlite

import (
	"context"
	"database/sql"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/storage"
)

func (s *Store) entrySelect() (string, error) {
	hasCompleted, err := s.columnExists("entries", "completed")
	if err != nil {
		return "", storage.Classify(err)
	}
	if hasCompleted {
		return `SELECT user_id, habit_id, date_key, count, completed FROM entries`, nil
	}
	return `SELECT user_id, habit_id, date_key, count, 0 FROM entries`, nil
}

func (s *Store) GetEntry(key models.EntryKey) (models.Entry, error) {
	query, err := s.entrySelect()
	if err != nil {
		return models.Entry{}, err
	}
	var e models.Entry
	err = s.db.QueryRow(query+` WHERE user_id = ? AND habit_id = ? AND date_key = ?`,
		key.OwnerID, key.HabitID, key.DateKey).
		Scan(&e.OwnerID, &e.HabitID, &e.DateKey, &e.Count, &e.Completed)
	if err != nil {
		return models.Entry{}, storage.Classify(err)
	}
	return e, nil
}

func (s *Store) ListEntries(ownerID, start, end string) ([]models.Entry, error) {
	query, err := s.entrySelect()
	if err != nil {
		return nil, err
	}
	start, end = storage.Bounds(start, end)
	rows, err := s.db.Query(query+` WHERE user_id = ? AND date_key >= ? AND date_key <= ?
		ORDER BY date_key, habit_id`, ownerID, start, end)
	if err != nil {
		return nil, storage.Classify(err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.OwnerID, &e.HabitID, &e.DateKey, &e.Count, &e.Completed); err != nil {
			return nil, storage.Classify(err)
		}
		entries = append(entries, e)
	}
	return entries, storage.Classify(rows.Err())
}

func (s *Store) UpsertEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) error {
	var err error
	if v.Completed != nil {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO entries (user_id, habit_id, date_key, count, completed) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET
				count = excluded.count, completed = excluded.completed`,
			key.OwnerID, key.HabitID, key.DateKey, v.Count, *v.Completed)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO entries (user_id, habit_id, date_key, count) VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET count = excluded.count`,
			key.OwnerID, key.HabitID, key.DateKey, v.Count)
	}
	return storage.Classify(err)
}

func (s *Store) UpdateEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) (bool, error) {
	var (
		n   int64
		err error
	)
	if v.Completed != nil {
		n, err = exec(s.db.ExecContext(ctx, `UPDATE entries SET count = ?, completed = ?
			WHERE user_id = ? AND habit_id = ? AND date_key = ?`,
			v.Count, *v.Completed, key.OwnerID, key.HabitID, key.DateKey))
	} else {
		n, err = exec(s.db.ExecContext(ctx, `UPDATE entries SET count = ?
			WHERE user_id = ? AND habit_id = ? AND date_key = ?`,
			v.Count, key.OwnerID, key.HabitID, key.DateKey))
	}
	if err != nil {
		return false, storage.Classify(err)
	}
	return n > 0, nil
}

func (s *Store) InsertEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) error {
	var err error
	if v.Completed != nil {
		_, err = s.db.ExecContext(ctx, `INSERT INTO entries (user_id, habit_id, date_key, count, completed)
			VALUES (?, ?, ?, ?, ?)`, key.OwnerID, key.HabitID, key.DateKey, v.Count, *v.Completed)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO entries (user_id, habit_id, date_key, count)
			VALUES (?, ?, ?, ?)`, key.OwnerID, key.HabitID, key.DateKey, v.Count)
	}
	return storage.Classify(err)
}

// UpsertEntries writes entries in one transaction. Databases without the
// completed column get count-only writes, matched by update then insert
// because they may also lack the unique key.
func (s *Store) UpsertEntries(entries []models.Entry) error {
	hasCompleted, err := s.columnExists("entries", "completed")
	if err != nil {
		return storage.Classify(err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if hasCompleted {
		err = upsertEntries(tx, entries)
	} else {
		err = upsertLegacyEntries(tx, entries)
	}
	if err != nil {
		return storage.Classify(err)
	}
	return tx.Commit()
}

func upsertEntries(tx *sql.Tx, entries []models.Entry) error {
	stmt, err := tx.Prepare(`
		INSERT INTO entries (user_id, habit_id, date_key, count, completed) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET
			count = excluded.count, completed = excluded.completed`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.OwnerID, e.HabitID, e.DateKey, e.Count, e.Completed); err != nil {
			return err
		}
	}
	return nil
}

func upsertLegacyEntries(tx *sql.Tx, entries []models.Entry) error {
	update, err := tx.Prepare(`UPDATE entries SET count = ? WHERE user_id = ? AND habit_id = ? AND date_key = ?`)
	if err != nil {
		return err
	}
	defer update.Close()
	insert, err := tx.Prepare(`INSERT INTO entries (user_id, habit_id, date_key, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, e := range entries {
		n, err := exec(update.Exec(e.Count, e.OwnerID, e.HabitID, e.DateKey))
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := insert.Exec(e.OwnerID, e.HabitID, e.DateKey, e.Count); err != nil {
			return err
		}
	}
	return nil
}
