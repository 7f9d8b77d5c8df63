package progress

import "github.com/julianstephens/habhub/internal/models"

// Direction moves a habit one slot up (-1) or down (+1) in display order.
type Direction int

const (
	MoveUp   Direction = -1
	MoveDown Direction = 1
)

// SortUpdate is one habit's new dense sort order
type SortUpdate struct {
	ID        string
	SortOrder int
}

// ReorderPlan is the result of moving one habit
type ReorderPlan struct {
	Reordered []models.Habit
	Updates   []SortUpdate
}

// BuildReorderPlan swaps habitID with its neighbour in dir and renumbers the
// whole list 0..n-1. It returns nil when the habit is missing or the move
// would leave the list.
func BuildReorderPlan(habits []models.Habit, habitID string, dir Direction) *ReorderPlan {
	current := -1
	for i, h := range habits {
		if h.ID == habitID {
			current = i
			break
		}
	}
	if current < 0 {
		return nil
	}

	target := current + int(dir)
	if target < 0 || target >= len(habits) {
		return nil
	}

	reordered := make([]models.Habit, len(habits))
	copy(reordered, habits)
	reordered[current], reordered[target] = reordered[target], reordered[current]

	updates := make([]SortUpdate, len(reordered))
	for i := range reordered {
		reordered[i].SortOrder = i
		updates[i] = SortUpdate{ID: reordered[i].ID, SortOrder: i}
	}

	return &ReorderPlan{Reordered: reordered, Updates: updates}
}
