package recurrence

import (
	"strings"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/utils"
)

// Progress is how many completions landed in the current bucket against the
// flexible target.
type Progress struct {
	Current int
	Target  int
}

// Met reports whether the bucket target has been reached.
func (p Progress) Met() bool {
	return p.Current >= p.Target
}

// Bucket returns the first date key of the bucket holding today. Week
// buckets start on weekStart; month buckets on the first of the month.
func Bucket(interval constants.Interval, today string, weekStart int) string {
	if interval == constants.IntervalMonth {
		return utils.MonthBucket(today) + "-01"
	}
	return utils.StartOfWeek(today, weekStart)
}

// InBucket reports whether day counts toward the bucket holding today.
// Week buckets run from their start up to today; month buckets cover the
// whole month.
func InBucket(interval constants.Interval, day, today string, weekStart int) bool {
	if interval == constants.IntervalMonth {
		return strings.HasPrefix(day, utils.MonthBucket(today))
	}
	return day >= utils.StartOfWeek(today, weekStart) && day <= today
}

// PeriodProgress returns bucket progress for a flexible habit. ok is false
// for every other schedule.
func PeriodProgress(habit models.Habit, entries []models.Entry, today string, settings models.UserSettings) (p Progress, ok bool) {
	s, isFlexible := habit.Schedule.(models.FlexibleSchedule)
	if !isFlexible {
		return Progress{}, false
	}
	return flexibleProgress(habit, s.Normalized(), entries, today, settings.WeekStart), true
}

func flexibleProgress(habit models.Habit, s models.FlexibleSchedule, entries []models.Entry, today string, weekStart int) Progress {
	p := Progress{Target: s.TargetCount}
	for i := range entries {
		e := &entries[i]
		if e.HabitID != habit.ID || !InBucket(s.Interval, e.DateKey, today, weekStart) {
			continue
		}
		if progress.IsDone(e, habit) {
			p.Current++
		}
	}
	return p
}
