package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/utils"
)

// ErrInvalidHabit marks a habit rejected before it reaches storage.
var ErrInvalidHabit = errors.New("invalid habit")

// Problem is one rule a habit breaks
type Problem struct {
	Field   string
	Message string
}

// Error is returned when a habit fails validation. It wraps ErrInvalidHabit.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidHabit, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error { return ErrInvalidHabit }

// FormatReport returns a human-readable report of all problems
func (e *Error) FormatReport() string {
	report := "Habit is invalid:\n"
	for _, p := range e.Problems {
		report += fmt.Sprintf("- %s: %s\n", p.Field, p.Message)
	}
	return report
}

// ValidateHabit checks a habit and its schedule. It returns nil or *Error.
func ValidateHabit(h models.Habit) error {
	var problems []Problem
	add := func(field, format string, args ...interface{}) {
		problems = append(problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(h.Name) == "" {
		add("name", "must not be empty")
	}
	if h.GoalCount < 1 {
		add("goal_count", "must be a positive integer, got %d", h.GoalCount)
	}
	if h.ExternalURL != "" {
		if u, err := url.Parse(h.ExternalURL); err != nil || u.Scheme == "" {
			add("external_url", "must be an absolute URL, got %q", h.ExternalURL)
		}
	}

	switch s := h.Schedule.(type) {
	case nil, models.DailySchedule:
	case models.WeeklySchedule:
		for _, d := range s.WeekDays {
			if d < 0 || d > 6 {
				add("schedule.weekDays", "weekday %d out of range 0-6", d)
			}
		}
		if hasDuplicates(s.WeekDays) {
			add("schedule.weekDays", "contains duplicates")
		}
	case models.MonthlySchedule:
		for _, d := range s.MonthDays {
			if d < 1 || d > constants.MonthEnd {
				add("schedule.monthDays", "day %d out of range 1-%d", d, constants.MonthEnd)
			}
		}
		if hasDuplicates(s.MonthDays) {
			add("schedule.monthDays", "contains duplicates")
		}
	case models.FlexibleSchedule:
		// legacy rows may omit interval and target
		s = s.Normalized()
		if s.TargetCount < 1 {
			add("schedule.targetIntervalCount", "must be a positive integer, got %d", s.TargetCount)
		}
		if s.Interval != constants.IntervalWeek && s.Interval != constants.IntervalMonth {
			add("schedule.interval", "must be %q or %q, got %q", constants.IntervalWeek, constants.IntervalMonth, s.Interval)
		}
	case models.OnceSchedule:
		if !utils.ValidDateKey(s.TargetDate) {
			add("schedule.targetDate", "must be a YYYY-MM-DD date, got %q", s.TargetDate)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &Error{Problems: problems}
}

// ValidateWeekStart checks a week-start setting value.
func ValidateWeekStart(weekStart int) error {
	if weekStart != 0 && weekStart != 1 {
		return fmt.Errorf("week start must be 0 (Sunday) or 1 (Monday), got %d", weekStart)
	}
	return nil
}

// ValidateLanguage checks a language setting value.
func ValidateLanguage(lang string) error {
	if lang != constants.LanguageEnglish && lang != constants.LanguageJapanese {
		return fmt.Errorf("language must be %q or %q, got %q", constants.LanguageEnglish, constants.LanguageJapanese, lang)
	}
	return nil
}

func hasDuplicates(values []int) bool {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
