package postgres

import (
	"context"
	"database/sql"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/storage"
)

const (
	entrySelect       = `SELECT user_id, habit_id, date_key, count, completed FROM entries`
	legacyEntrySelect = `SELECT user_id, habit_id, date_key, count, false FROM entries`
)

// queryEntries runs the filter against the current schema and falls back
// to the count-only projection when the completed column is missing.
func (s *Store) queryEntries(filter string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.Query(entrySelect+filter, args...)
	if err != nil {
		if storage.KindOf(classify(err)) != storage.KindUndefinedColumn {
			return nil, classify(err)
		}
		rows, err = s.db.Query(legacyEntrySelect+filter, args...)
		if err != nil {
			return nil, classify(err)
		}
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.OwnerID, &e.HabitID, &e.DateKey, &e.Count, &e.Completed); err != nil {
			return nil, classify(err)
		}
		entries = append(entries, e)
	}
	return entries, classify(rows.Err())
}

func (s *Store) GetEntry(key models.EntryKey) (models.Entry, error) {
	entries, err := s.queryEntries(` WHERE user_id = $1 AND habit_id = $2 AND date_key = $3`,
		key.OwnerID, key.HabitID, key.DateKey)
	if err != nil {
		return models.Entry{}, err
	}
	if len(entries) == 0 {
		return models.Entry{}, &storage.StoreError{Kind: storage.KindNoRows, Message: "not found", Err: sql.ErrNoRows}
	}
	return entries[0], nil
}

func (s *Store) ListEntries(ownerID, start, end string) ([]models.Entry, error) {
	start, end = storage.Bounds(start, end)
	return s.queryEntries(` WHERE user_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY date_key, habit_id`, ownerID, start, end)
}

func (s *Store) UpsertEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) error {
	var err error
	if v.Completed != nil {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO entries (user_id, habit_id, date_key, count, completed) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET
				count = EXCLUDED.count, completed = EXCLUDED.completed`,
			key.OwnerID, key.HabitID, key.DateKey, v.Count, *v.Completed)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO entries (user_id, habit_id, date_key, count) VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET count = EXCLUDED.count`,
			key.OwnerID, key.HabitID, key.DateKey, v.Count)
	}
	return classify(err)
}

func (s *Store) UpdateEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if v.Completed != nil {
		res, err = s.db.ExecContext(ctx, `UPDATE entries SET count = $1, completed = $2
			WHERE user_id = $3 AND habit_id = $4 AND date_key = $5`,
			v.Count, *v.Completed, key.OwnerID, key.HabitID, key.DateKey)
	} else {
		res, err = s.db.ExecContext(ctx, `UPDATE entries SET count = $1
			WHERE user_id = $2 AND habit_id = $3 AND date_key = $4`,
			v.Count, key.OwnerID, key.HabitID, key.DateKey)
	}
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertEntry(ctx context.Context, key models.EntryKey, v storage.EntryValues) error {
	var err error
	if v.Completed != nil {
		_, err = s.db.ExecContext(ctx, `INSERT INTO entries (user_id, habit_id, date_key, count, completed)
			VALUES ($1, $2, $3, $4, $5)`, key.OwnerID, key.HabitID, key.DateKey, v.Count, *v.Completed)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO entries (user_id, habit_id, date_key, count)
			VALUES ($1, $2, $3, $4)`, key.OwnerID, key.HabitID, key.DateKey, v.Count)
	}
	return classify(err)
}

// UpsertEntries writes entries in one transaction. When the completed
// column is missing the batch is redone count-only, matching rows by update
// then insert since legacy tables may lack the unique key.
func (s *Store) UpsertEntries(entries []models.Entry) error {
	err := s.inTx(func(tx *sql.Tx) error { return upsertEntries(tx, entries) })
	if storage.KindOf(err) != storage.KindUndefinedColumn {
		return err
	}
	return s.inTx(func(tx *sql.Tx) error { return upsertLegacyEntries(tx, entries) })
}

func (s *Store) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func upsertEntries(tx *sql.Tx, entries []models.Entry) error {
	stmt, err := tx.Prepare(`
		INSERT INTO entries (user_id, habit_id, date_key, count, completed) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, habit_id, date_key) DO UPDATE SET
			count = EXCLUDED.count, completed = EXCLUDED.completed`)
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
	for _, e := range entries {
		res, err := tx.Exec(`UPDATE entries SET count = $1 WHERE user_id = $2 AND habit_id = $3 AND date_key = $4`,
			e.Count, e.OwnerID, e.HabitID, e.DateKey)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n > 0 {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO entries (user_id, habit_id, date_key, count) VALUES ($1, $2, $3, $4)`,
			e.OwnerID, e.HabitID, e.DateKey, e.Count); err != nil {
			return err
		}
	}
	return nil
}
