package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/storage"
)

const habitColumns = `id, user_id, name, description, frequency, goal_count, schedule,
	external_url, archived, sort_order, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var (
		h           models.Habit
		description sql.NullString
		externalURL sql.NullString
		frequency   string
		schedule    string
		createdAt   string
	)
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &description, &frequency, &h.GoalCount,
		&schedule, &externalURL, &h.Archived, &h.SortOrder, &createdAt)
	if err != nil {
		return models.Habit{}, storage.Classify(err)
	}

	h.Description = description.String
	h.ExternalURL = externalURL.String
	if err := storage.DecodeSchedule(&h, frequency, []byte(schedule)); err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
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
		nullable(h.ExternalURL), h.Archived, h.SortOrder, h.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) AddHabit(h models.Habit) error {
	args, err := habitArgs(h)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return storage.Classify(err)
}

func (s *Store) GetHabit(ownerID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE user_id = ? AND id = ?`, ownerID, id)
	return scanHabit(row)
}

func (s *Store) GetHabitByName(ownerID, name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE user_id = ? AND name = ?
		ORDER BY archived, sort_order LIMIT 1`, ownerID, name)
	return scanHabit(row)
}

func (s *Store) ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeArchived {
		query += " AND archived = 0"
	}
	query += " ORDER BY sort_order, created_at"

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, storage.Classify(err)
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
	return habits, storage.Classify(rows.Err())
}

func (s *Store) UpdateHabit(h models.Habit) error {
	freq, schedule, err := storage.EncodeSchedule(h)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE habits SET name = ?, description = ?, frequency = ?, goal_count = ?, schedule = ?,
			external_url = ?, archived = ?, sort_order = ?
		WHERE user_id = ? AND id = ?`,
		h.Name, nullable(h.Description), freq, h.GoalCount, string(schedule),
		nullable(h.ExternalURL), h.Archived, h.SortOrder, h.OwnerID, h.ID)
	return requireRow(res, err)
}

func (s *Store) SetArchived(ownerID, id string, archived bool) error {
	res, err := s.db.Exec(`UPDATE habits SET archived = ? WHERE user_id = ? AND id = ?`, archived, ownerID, id)
	return requireRow(res, err)
}

func (s *Store) UpdateSortOrders(ownerID string, updates []progress.SortUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE habits SET sort_order = ? WHERE user_id = ? AND id = ?`)
	if err != nil {
		return storage.Classify(err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.SortOrder, ownerID, u.ID); err != nil {
			return storage.Classify(err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpsertHabits(habits []models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id, name = excluded.name, description = excluded.description,
			frequency = excluded.frequency, goal_count = excluded.goal_count, schedule = excluded.schedule,
			external_url = excluded.external_url, archived = excluded.archived,
			sort_order = excluded.sort_order, created_at = excluded.created_at`)
	if err != nil {
		return storage.Classify(err)
	}
	defer stmt.Close()

	for _, h := range habits {
		args, err := habitArgs(h)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, storage.Classify(err))
		}
	}
	return tx.Commit()
}

func requireRow(res sql.Result, err error) error {
	if err != nil {
		return storage.Classify(err)
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
