// Package analytics replays due-ness and completion over past days to
// produce consistency, streak and heatmap figures.
package analytics

import (
	"math"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/recurrence"
	"github.com/julianstephens/habhub/internal/utils"
)

// DayRate is the completion percentage of the habits due on one day.
type DayRate struct {
	DateKey string
	Due     int
	Done    int
	Rate    int
}

// HeatCell is a DayRate bucketed into an intensity level 0-4.
type HeatCell struct {
	DayRate
	Level int
}

// Summary bundles every figure the stats view shows.
type Summary struct {
	ActiveHabits int
	Consistency  int
	Streak       int
	Last7Days    []DayRate
	Heatmap      []HeatCell
}

// history indexes the tracked habits and their entries for replay.
type history struct {
	habits    []models.Habit
	byHabit   map[string][]models.Entry
	settings  models.UserSettings
	firstDate string
}

// newHistory keeps habits that count toward analytics: not archived and
// not one-off tasks.
func newHistory(habits []models.Habit, entries []models.Entry, settings models.UserSettings) *history {
	h := &history{byHabit: make(map[string][]models.Entry), settings: settings}
	for _, habit := range habits {
		if habit.Archived || habit.IsOnce() {
			continue
		}
		h.habits = append(h.habits, habit)
		if !habit.CreatedAt.IsZero() {
			h.firstDate = earliest(h.firstDate, utils.CreatedDateKey(habit.CreatedAt))
		}
	}
	for _, e := range entries {
		h.byHabit[e.HabitID] = append(h.byHabit[e.HabitID], e)
		h.firstDate = earliest(h.firstDate, e.DateKey)
	}
	return h
}

func earliest(a, b string) string {
	if a == "" || b < a {
		return b
	}
	return a
}

func (h *history) day(day string) DayRate {
	r := DayRate{DateKey: day}
	for _, habit := range h.habits {
		entries := h.byHabit[habit.ID]
		if !recurrence.IsDue(habit, day, entries, h.settings) {
			continue
		}
		r.Due++
		if e, ok := models.FindEntry(entries, habit.ID, day); ok && progress.IsDone(&e, habit) {
			r.Done++
		}
	}
	r.Rate = percent(r.Done, r.Due)
	return r
}

func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}

// Consistency is the share of due habit-days completed over the last days
// days, rounded to a whole percentage. Nothing due gives 0.
func Consistency(habits []models.Habit, entries []models.Entry, settings models.UserSettings, today string, days int) int {
	return newHistory(habits, entries, settings).consistency(today, days)
}

func (h *history) consistency(today string, days int) int {
	var due, done int
	for _, r := range h.rates(today, days) {
		due += r.Due
		done += r.Done
	}
	return percent(done, due)
}

// CurrentStreak counts consecutive days, walking back from today, on which
// every due habit was done. Days with nothing due are skipped and an
// unfinished today does not end the streak.
func CurrentStreak(habits []models.Habit, entries []models.Entry, settings models.UserSettings, today string) int {
	return newHistory(habits, entries, settings).streak(today)
}

func (h *history) streak(today string) int {
	if len(h.habits) == 0 || h.firstDate == "" {
		return 0
	}
	streak := 0
	for day := today; day >= h.firstDate; day = utils.AddDays(day, -1) {
		r := h.day(day)
		switch {
		case r.Due == 0:
			continue
		case r.Done == r.Due:
			streak++
		case day == today:
			continue
		default:
			return streak
		}
	}
	return streak
}

// Last7Days returns the completion rate of each of the last seven days,
// oldest first.
func Last7Days(habits []models.Habit, entries []models.Entry, settings models.UserSettings, today string) []DayRate {
	return newHistory(habits, entries, settings).rates(today, constants.BarDays)
}

func (h *history) rates(today string, days int) []DayRate {
	keys := utils.LastNDays(today, days)
	out := make([]DayRate, len(keys))
	for i, day := range keys {
		out[i] = h.day(day)
	}
	return out
}

// Level buckets a completion rate: 0 none, 1 up to 25%, 2 up to 50%,
// 3 up to 75%, 4 above.
func Level(rate int) int {
	switch {
	case rate <= 0:
		return 0
	case rate <= 25:
		return 1
	case rate <= 50:
		return 2
	case rate <= 75:
		return 3
	default:
		return 4
	}
}

// Heatmap returns one cell per day for the last days days, oldest first.
func Heatmap(habits []models.Habit, entries []models.Entry, settings models.UserSettings, today string, days int) []HeatCell {
	return newHistory(habits, entries, settings).heatmap(today, days)
}

func (h *history) heatmap(today string, days int) []HeatCell {
	rates := h.rates(today, days)
	cells := make([]HeatCell, len(rates))
	for i, r := range rates {
		cells[i] = HeatCell{DayRate: r, Level: Level(r.Rate)}
	}
	return cells
}

// Summarize computes every figure with the default windows.
func Summarize(habits []models.Habit, entries []models.Entry, settings models.UserSettings, today string) Summary {
	h := newHistory(habits, entries, settings)
	return Summary{
		ActiveHabits: len(h.habits),
		Consistency:  h.consistency(today, constants.ConsistencyDays),
		Streak:       h.streak(today),
		Last7Days:    h.rates(today, constants.BarDays),
		Heatmap:      h.heatmap(today, constants.HeatmapDays),
	}
}
