package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		return utils.ValidDateKey(fl.Field().String())
	})
}

// ValidationError lists every problem found in an import payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid import payload: " + strings.Join(e.Problems, " / ")
}

// sections is the top-level shape. Raw elements are kept so that the kind
// of each item can be checked before decoding.
type sections struct {
	Habits       []json.RawMessage `validate:"max=10000"`
	Entries      []json.RawMessage `validate:"max=10000"`
	UserSettings json.RawMessage
}

type habitRecord struct {
	ID        string `validate:"required"`
	Name      string `validate:"required"`
	GoalCount int    `validate:"gte=1"`
}

type entryRecord struct {
	HabitID string `validate:"required"`
	DateKey string `validate:"required,datekey"`
	Count   int    `validate:"gte=0"`
}

type settingsRecord struct {
	WeekStart int    `validate:"oneof=0 1"`
	Language  string `validate:"omitempty,oneof=en ja"`
}

func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isObject(raw json.RawMessage) bool { return kindOf(raw) == '{' }

func isArray(raw json.RawMessage) bool { return kindOf(raw) == '[' }

// Validate checks raw against the import payload format and decodes it.
// Structural problems are collected before any record is decoded, so a
// payload is either fully accepted or rejected with every structural
// problem listed.
func Validate(raw []byte) (*Payload, error) {
	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &ValidationError{Problems: []string{"Invalid JSON syntax."}}
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, &ValidationError{Problems: []string{"Top-level JSON value must be an object."}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ValidationError{Problems: []string{"Invalid JSON syntax."}}
	}

	var problems []string
	var s sections
	for _, name := range []string{"habits", "entries"} {
		field := fields[name]
		if !isArray(field) {
			problems = append(problems, name+" must be an array.")
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(field, &items); err != nil {
			problems = append(problems, name+" must be an array.")
			continue
		}
		for _, item := range items {
			if !isObject(item) {
				problems = append(problems, "Each item in "+name+" must be an object.")
				break
			}
		}
		if name == "habits" {
			s.Habits = items
		} else {
			s.Entries = items
		}
	}
	if settings, ok := fields["user_settings"]; ok && kindOf(settings) != 'n' {
		if !isObject(settings) {
			problems = append(problems, "user_settings must be an object.")
		} else {
			s.UserSettings = settings
		}
	}
	if err := validate.Struct(s); err != nil {
		problems = append(problems, describe(err, nil)...)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return decode(s)
}

func decode(s sections) (*Payload, error) {
	p := &Payload{
		Habits:  make([]models.Habit, 0, len(s.Habits)),
		Entries: make([]models.Entry, 0, len(s.Entries)),
	}
	var problems []string

	for i, raw := range s.Habits {
		var h models.Habit
		if err := json.Unmarshal(raw, &h); err != nil {
			problems = append(problems, fmt.Sprintf("habits[%d]: %v", i, err))
			continue
		}
		rec := habitRecord{ID: h.ID, Name: h.Name, GoalCount: h.GoalCount}
		if err := validate.Struct(rec); err != nil {
			problems = append(problems, describe(err, fieldPrefix("habits", i))...)
			continue
		}
		p.Habits = append(p.Habits, h)
	}

	for i, raw := range s.Entries {
		var e models.Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			problems = append(problems, fmt.Sprintf("entries[%d]: %v", i, err))
			continue
		}
		rec := entryRecord{HabitID: e.HabitID, DateKey: e.DateKey, Count: e.Count}
		if err := validate.Struct(rec); err != nil {
			problems = append(problems, describe(err, fieldPrefix("entries", i))...)
			continue
		}
		p.Entries = append(p.Entries, e)
	}

	if s.UserSettings != nil {
		settings := models.DefaultSettings("")
		if err := json.Unmarshal(s.UserSettings, &settings); err != nil {
			problems = append(problems, fmt.Sprintf("user_settings: %v", err))
		} else if err := validate.Struct(settingsRecord{WeekStart: settings.WeekStart, Language: settings.Language}); err != nil {
			problems = append(problems, describe(err, func() string { return "user_settings" })...)
		} else {
			models.ApplyDefaultSettings(&settings)
			p.UserSettings = &settings
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return p, nil
}

func fieldPrefix(section string, i int) func() string {
	return func() string { return fmt.Sprintf("%s[%d]", section, i) }
}

var fieldNames = map[string]string{
	"Habits":    "habits",
	"Entries":   "entries",
	"ID":        "id",
	"Name":      "name",
	"GoalCount": "goal_count",
	"HabitID":   "habit_id",
	"DateKey":   "date_key",
	"Count":     "count",
	"WeekStart": "week_start",
	"Language":  "language",
}

// describe turns validator failures into payload problem strings.
func describe(err error, prefix func() string) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if prefix != nil {
			name = prefix() + "." + name
		}
		var msg string
		switch fe.Tag() {
		case "max":
			msg = fmt.Sprintf("%s must contain at most %d items.", name, constants.MaxImportItems)
		case "required":
			msg = name + " is required."
		case "datekey":
			msg = name + " must be a YYYY-MM-DD date."
		case "gte":
			msg = fmt.Sprintf("%s must be at least %s.", name, fe.Param())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s].", name, fe.Param())
		default:
			msg = fmt.Sprintf("%s failed %s validation.", name, fe.Tag())
		}
		out = append(out, msg)
	}
	return out
}
