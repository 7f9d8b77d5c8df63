// Package progress holds the per-habit, per-day completion state machine.
//
// A day is either not-done or done. Done means the entry's completed flag is
// set or its count reached the habit's goal; either suffices because a store
// can lag on one of the two fields while a write cascade is running.
package progress

import "github.com/julianstephens/habhub/internal/models"

// IsDone reports whether entry satisfies habit for its day. A nil entry is not done.
func IsDone(entry *models.Entry, habit models.Habit) bool {
	if entry == nil {
		return false
	}
	return entry.Completed || entry.Count >= habit.GoalCount
}

// CurrentCount returns the logged count, zero when there is no entry.
func CurrentCount(entry *models.Entry) int {
	if entry == nil {
		return 0
	}
	return entry.Count
}

// NextCountFromBump returns the count after adding delta, floored at zero.
// A zero delta leaves the count unchanged.
func NextCountFromBump(entry *models.Entry, habit models.Habit, delta int) int {
	current := CurrentCount(entry)
	if delta == 0 {
		return current
	}
	return max(0, current+delta)
}

// NextCountFromToggle resets a done day to zero and jumps a not-done day
// straight to the goal.
func NextCountFromToggle(entry *models.Entry, habit models.Habit) int {
	if IsDone(entry, habit) {
		return 0
	}
	return habit.GoalCount
}

// CompletedFor returns the denormalized completed flag for count.
func CompletedFor(count int, habit models.Habit) bool {
	return count >= habit.GoalCount
}
