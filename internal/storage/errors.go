package storage

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
)

// ErrNotFound is matched by every StoreError of kind KindNoRows.
var ErrNotFound = errors.New("not found")

// Kind is the class of a store failure the write protocol can react to.
type Kind int

const (
	KindOther Kind = iota
	KindNoRows
	KindDuplicateKey
	KindUndefinedColumn
	KindNoConflictTarget
	KindNotNull
)

func (k Kind) String() string {
	switch k {
	case KindNoRows:
		return "no rows"
	case KindDuplicateKey:
		return "duplicate key"
	case KindUndefinedColumn:
		return "undefined column"
	case KindNoConflictTarget:
		return "no conflict target"
	case KindNotNull:
		return "not null"
	default:
		return "other"
	}
}

// StoreError is a driver error mapped onto a Kind. Code, Message, Details
// and Hint carry the native fields where the driver has them.
type StoreError struct {
	Kind     Kind
	Code     string
	Column   string
	Relation string
	Message  string
	Details  string
	Hint     string
	Err      error
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNoRows
}

// Postgres SQLSTATE codes
const (
	CodeUndefinedColumn    = "42703"
	CodeNoConflictTarget   = "42P10"
	CodeUniqueViolation    = "23505"
	CodeNotNullViolation   = "23502"
	CodeInsufficientAccess = "42501"
)

var (
	conflictPattern   = regexp.MustCompile(`(?i)on\s+conflict`)
	noUniquePattern   = regexp.MustCompile(`(?i)(no|there is no)\s+unique\s+or\s+exclusion\s+constraint\s+matching`)
	pgColumnPattern   = regexp.MustCompile(`column "([^"]+)"(?: of relation "([^"]+)")?`)
	liteNoColumnNamed = regexp.MustCompile(`table (\S+) has no column named (\S+)`)
	liteNoSuchColumn  = regexp.MustCompile(`no such column: (?:\S+\.)?(\w+)`)
	liteNotNull       = regexp.MustCompile(`NOT NULL constraint failed: (\w+)\.(\w+)`)
)

// NewStoreError builds a StoreError from native fields and derives its Kind
// from the code first and the message text second.
func NewStoreError(code, message, details, hint string, err error) *StoreError {
	e := &StoreError{Code: code, Message: message, Details: details, Hint: hint, Err: err}
	text := strings.Join(nonEmpty(message, details, hint), " ")

	switch {
	case code == CodeNoConflictTarget,
		conflictPattern.MatchString(text) && noUniquePattern.MatchString(text),
		strings.Contains(text, "ON CONFLICT clause does not match any PRIMARY KEY or UNIQUE constraint"):
		e.Kind = KindNoConflictTarget
	case code == CodeUniqueViolation,
		strings.Contains(text, "UNIQUE constraint failed"),
		strings.Contains(text, "duplicate key value"):
		e.Kind = KindDuplicateKey
	case code == CodeUndefinedColumn:
		e.Kind = KindUndefinedColumn
		if m := pgColumnPattern.FindStringSubmatch(message); m != nil {
			e.Column, e.Relation = m[1], m[2]
		}
	case liteNoColumnNamed.MatchString(text):
		m := liteNoColumnNamed.FindStringSubmatch(text)
		e.Kind, e.Relation, e.Column = KindUndefinedColumn, m[1], m[2]
	case liteNoSuchColumn.MatchString(text):
		e.Kind, e.Column = KindUndefinedColumn, liteNoSuchColumn.FindStringSubmatch(text)[1]
	case code == CodeNotNullViolation || strings.Contains(text, "violates not-null constraint"):
		e.Kind = KindNotNull
		if m := pgColumnPattern.FindStringSubmatch(message); m != nil {
			e.Column, e.Relation = m[1], m[2]
		}
	case liteNotNull.MatchString(text):
		m := liteNotNull.FindStringSubmatch(text)
		e.Kind, e.Relation, e.Column = KindNotNull, m[1], m[2]
	}
	return e
}

// Classify maps err onto a StoreError using its text. Drivers with richer
// native errors fill in the fields themselves and fall back to Classify.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &StoreError{Kind: KindNoRows, Message: "not found", Err: err}
	}
	return NewStoreError("", err.Error(), "", "", err)
}

// KindOf returns the Kind of err, KindOther when it is not a StoreError.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
