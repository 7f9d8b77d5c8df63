package entrywrite

import (
	"errors"
	"strings"

	"github.com/julianstephens/habhub/internal/storage"
)

const (
	completedColumn = "completed"
	entriesRelation = "entries"
)

// ShouldFallbackUpsert reports whether an upsert failed because the store
// has no unique constraint matching the conflict target. Only then is the
// update/insert path worth trying.
func ShouldFallbackUpsert(err error) bool {
	var se *storage.StoreError
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == storage.KindNoConflictTarget
}

// ShouldFallbackCompletedColumn reports whether a write failed because the
// entries relation lacks the completed column.
func ShouldFallbackCompletedColumn(err error) bool {
	var se *storage.StoreError
	if !errors.As(err, &se) || se.Kind != storage.KindUndefinedColumn {
		return false
	}
	if se.Code != "" && se.Code != storage.CodeUndefinedColumn {
		return false
	}
	if !strings.EqualFold(se.Column, completedColumn) {
		return false
	}
	return se.Relation == "" || strings.EqualFold(se.Relation, entriesRelation)
}

func isDuplicateKey(err error) bool {
	return storage.KindOf(err) == storage.KindDuplicateKey
}
