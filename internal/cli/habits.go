package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/recurrence"
	"github.com/julianstephens/habhub/internal/storage"
	"github.com/julianstephens/habhub/internal/utils"
	"github.com/julianstephens/habhub/internal/validation"
)

// CreateHabit assigns a new habit its id, owner and place at the end of the
// active list, validates it and stores it.
func (c *Context) CreateHabit(ownerID string, h models.Habit) (models.Habit, error) {
	if _, err := c.Store.GetHabitByName(ownerID, h.Name); err == nil {
		return models.Habit{}, fmt.Errorf("habit with name %q already exists", h.Name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	active, err := c.Store.ListHabits(ownerID, false)
	if err != nil {
		return models.Habit{}, err
	}

	h.ID = uuid.New().String()
	h.OwnerID = ownerID
	h.SortOrder = len(active)
	h.CreatedAt = c.clock().UTC()
	if h.GoalCount == 0 {
		h.GoalCount = constants.DefaultGoalCount
	}
	if h.AccentColor == "" {
		h.AccentColor = constants.DefaultAccentColor
	}
	if h.Schedule == nil {
		h.Schedule = models.DailySchedule{}
	}

	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	if err := c.Store.AddHabit(h); err != nil {
		return models.Habit{}, c.HabitWriteError(err)
	}
	return h, nil
}

// DayData is what deciding due-ness on one day needs.
type DayData struct {
	Settings models.UserSettings
	Habits   []models.Habit
	// Entries covers both period buckets holding the day.
	Entries []models.Entry
}

// LoadDay reads the owner's active habits and the entries of the week and
// month around day.
func (c *Context) LoadDay(ownerID, day string) (DayData, error) {
	settings, err := c.Settings(ownerID)
	if err != nil {
		return DayData{}, err
	}
	habits, err := c.Store.ListHabits(ownerID, false)
	if err != nil {
		return DayData{}, err
	}

	start := utils.StartOfWeek(day, settings.WeekStart)
	if month := utils.MonthBucket(day) + "-01"; month < start {
		start = month
	}
	entries, err := c.Store.ListEntries(ownerID, start, "")
	if err != nil {
		return DayData{}, err
	}
	return DayData{Settings: settings, Habits: habits, Entries: entries}, nil
}

// PeriodLabel renders a flexible habit's bucket progress, e.g.
// "Week goal: 1 / 3".
func PeriodLabel(habit models.Habit, entries []models.Entry, day string, settings models.UserSettings) (string, bool) {
	p, ok := recurrence.PeriodProgress(habit, entries, day, settings)
	if !ok {
		return "", false
	}
	label := "Week goal"
	if habit.Schedule.(models.FlexibleSchedule).Normalized().Interval == constants.IntervalMonth {
		label = "Month goal"
	}
	return fmt.Sprintf("%s: %d / %d", label, p.Current, p.Target), true
}
