package postgres

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/storage"
)

const habitColumns = `id, user_id, name, description, frequency, goal_count, schedule,
	external_url, archived, sort_order, created_at`

const habitUpsertSet = `ON CONFLICT (id) DO UPDATE SET
	user_id = EXCLUDED.user_id, name = EXCLUDED.name, description = EXCLUDED.description,
	frequency = EXCLUDED.frequency, goal_count = EXCLUDED.goal_count, schedule = EXCLUDED.schedule,
	external_url = EXCLUDED.external_url, archived = EXCLUDED.archived,
	sort_order = EXCLUDED.sort_order, created_at = EXCLUDED.created_at`

type scanner interface {
	Scan(dest ...any) error
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func scanHabit(row scanner) (models.Habit, error) {
	var (
		h           models.Habit
		description sql.NullString
		externalURL sql.NullString
		frequency   string
		schedule    []byte
	)
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &description, &frequency, &h.GoalCount,
		&schedule, &externalURL, &h.Archived, &h.SortOrder, &h.CreatedAt)
	if err != nil {
		return models.Habit{}, classify(err)
	}
	h.Description = description.String
	h.ExternalURL = externalURL.String
	if err := storage.DecodeSchedule(&h, frequency, schedule); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func habitArgs(h models.Habit) ([]any, error) {
	freq, schedule, err := storage.EncodeSchedule(h)
	if err != nil {
		return nil, err
	}
	return []any{
		h.ID, h.OwnerID, h.Name, nullable(h.Description), freq, h.GoalCount, string(schedule),
		nullable(h.ExternalURL), h.Archived, h.SortOrder, h.CreatedAt.UTC(),
	}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertHabit(db execer, h models.Habit, upsert, withTitle bool) error {
	args, err := habitArgs(h)
	if err != nil {
		return err
	}
	columns, values := habitColumns, "$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11"
	if withTitle {
		columns, values = columns+", title", values+", $3"
	}
	query := `INSERT INTO habits (` + columns + `) VALUES (` + values + `)`
	if upsert {
		query += " " + habitUpsertSet
	}
	_, err = db.Exec(query, args...)
	return classify(err)
}

// withLegacyTitleFallback runs write once and, when a legacy schema rejects
// the row for a missing title, once more with title = name.
func withLegacyTitleFallback(write func(withTitle bool) error) error {
	err := write(false)
	if err == nil || !isLegacyTitleError(err) {
		return err
	}
	logger.Debug("Retrying habit write with legacy title column")
	return write(true)
}

func (s *Store) AddHabit(h models.Habit) error {
	return withLegacyTitleFallback(func(withTitle bool) error {
		return insertHabit(s.db, h, false, withTitle)
	})
}

func (s *Store) GetHabit(ownerID, id string) (models.Habit, error) {
	return scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 AND id = $2`, ownerID, id))
}

func (s *Store) GetHabitByName(ownerID, name string) (models.Habit, error) {
	return scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 AND name = $2
		ORDER BY archived, sort_order LIMIT 1`, ownerID, name))
}

func (s *Store) ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
	if !includeArchived {
		query += " AND NOT archived"
	}
	query += " ORDER BY sort_order, created_at"

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, classify(rows.Err())
}

func (s *Store) UpdateHabit(h models.Habit) error {
	freq, schedule, err := storage.EncodeSchedule(h)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE habits SET name = $1, description = $2, frequency = $3, goal_count = $4, schedule = $5,
			external_url = $6, archived = $7, sort_order = $8
		WHERE user_id = $9 AND id = $10`,
		h.Name, nullable(h.Description), freq, h.GoalCount, string(schedule),
		nullable(h.ExternalURL), h.Archived, h.SortOrder, h.OwnerID, h.ID)
	return requireRow(res, err)
}

func (s *Store) SetArchived(ownerID, id string, archived bool) error {
	res, err := s.db.Exec(`UPDATE habits SET archived = $1 WHERE user_id = $2 AND id = $3`, archived, ownerID, id)
	return requireRow(res, err)
}

func (s *Store) UpdateSortOrders(ownerID string, updates []progress.SortUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE habits SET sort_order = $1 WHERE user_id = $2 AND id = $3`)
	if err != nil {
		return classify(err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.SortOrder, ownerID, u.ID); err != nil {
			return classify(err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpsertHabits(habits []models.Habit) error {
	return withLegacyTitleFallback(func(withTitle bool) error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for _, h := range habits {
			if err := insertHabit(tx, h, true, withTitle); err != nil {
				return fmt.Errorf("habit %s: %w", h.ID, err)
			}
		}
		return tx.Commit()
	})
}

func requireRow(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.StoreError{Kind: storage.KindNoRows, Message: "not found", Err: sql.ErrNoRows}
	}
	return nil
}
