package postgres

import (
	"errors"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habhub/internal/storage"
)

// classify maps *pq.Error onto storage kinds, keeping the server's
// column and table fields when it sends them.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return storage.Classify(err)
	}
	se := storage.NewStoreError(string(pqErr.Code), pqErr.Message, pqErr.Detail, pqErr.Hint, err)
	if pqErr.Column != "" {
		se.Column = pqErr.Column
	}
	if pqErr.Table != "" {
		se.Relation = pqErr.Table
	}
	return se
}

const legacyTitleFragment = `null value in column "title" of relation "habits" violates not-null constraint`

// isLegacyTitleError reports a habit write rejected by an old schema that
// still requires the title column.
func isLegacyTitleError(err error) bool {
	var se *storage.StoreError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(se.Message, legacyTitleFragment) ||
		(se.Code == storage.CodeNotNullViolation && strings.Contains(se.Message, `"title"`))
}

// FormatHabitWriteError turns schema drift on the habits table into an
// actionable message.
func FormatHabitWriteError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not find the 'name' column of 'habits'"),
		strings.Contains(msg, `column "name" of relation "habits" does not exist`):
		return "the habits table has no name column; run 'habhub migrate' to update the schema"
	case strings.Contains(msg, legacyTitleFragment):
		return "the habits table uses the legacy schema where title is required; run 'habhub migrate' to make title optional"
	default:
		return msg
	}
}
