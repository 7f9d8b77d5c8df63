// Package recurrence decides which habits are due on a given day.
//
// Every function takes the day as a date key instead of reading the clock,
// so due-ness is a pure function of the habit, the day, its entries and the
// owner's settings.
package recurrence

import (
	"slices"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/utils"
)

// IsDue reports whether habit should be actionable on today.
//
// Archived habits are never due and neither are habits created after today.
// A habit that already has an entry for today stays due whatever its
// schedule says so the log can be undone.
func IsDue(habit models.Habit, today string, entries []models.Entry, settings models.UserSettings) bool {
	if habit.Archived {
		return false
	}
	if !habit.CreatedAt.IsZero() && utils.CreatedDateKey(habit.CreatedAt) > today {
		return false
	}
	if _, ok := models.FindEntry(entries, habit.ID, today); ok {
		return true
	}

	switch s := habit.Schedule.(type) {
	case nil, models.DailySchedule:
		return true
	case models.OnceSchedule:
		return s.TargetDate == today
	case models.WeeklySchedule:
		return slices.Contains(s.WeekDays, utils.Weekday(today))
	case models.MonthlySchedule:
		if slices.Contains(s.MonthDays, utils.DayOfMonth(today)) {
			return true
		}
		return slices.Contains(s.MonthDays, constants.MonthEnd) && utils.IsLastDayOfMonth(today)
	case models.FlexibleSchedule:
		p := flexibleProgress(habit, s.Normalized(), entries, today, settings.WeekStart)
		return p.Current < p.Target
	default:
		return false
	}
}

// DueHabits returns the habits due on today, keeping their input order.
func DueHabits(habits []models.Habit, today string, entries []models.Entry, settings models.UserSettings) []models.Habit {
	var due []models.Habit
	for _, h := range habits {
		if IsDue(h, today, entries, settings) {
			due = append(due, h)
		}
	}
	return due
}
