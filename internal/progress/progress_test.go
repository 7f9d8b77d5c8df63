package progress

import (
	"testing"

	"github.com/julianstephens/habhub/internal/models"
)

var goal3 = models.Habit{ID: "h", GoalCount: 3}

func TestIsDone(t *testing.T) {
	tests := []struct {
		name  string
		entry *models.Entry
		want  bool
	}{
		{"no entry", nil, false},
		{"completed flag only", &models.Entry{Count: 0, Completed: true}, true},
		{"count reaches goal without flag", &models.Entry{Count: 3, Completed: false}, true},
		{"count over goal", &models.Entry{Count: 5}, true},
		{"below goal", &models.Entry{Count: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDone(tt.entry, goal3); got != tt.want {
				t.Errorf("IsDone = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextCountFromBump(t *testing.T) {
	tests := []struct {
		name  string
		entry *models.Entry
		delta int
		want  int
	}{
		{"no entry decrement floors at zero", nil, -1, 0},
		{"zero count decrement floors at zero", &models.Entry{Count: 0}, -1, 0},
		{"increment from nothing", nil, 1, 1},
		{"increment", &models.Entry{Count: 2}, 1, 3},
		{"increment past goal", &models.Entry{Count: 3}, 1, 4},
		{"zero delta is a no-op", &models.Entry{Count: 2}, 0, 2},
		{"large decrement floors", &models.Entry{Count: 2}, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextCountFromBump(tt.entry, goal3, tt.delta); got != tt.want {
				t.Errorf("NextCountFromBump = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextCountFromToggle(t *testing.T) {
	if got := NextCountFromToggle(&models.Entry{Count: 3}, goal3); got != 0 {
		t.Errorf("done by count should reset to 0, got %d", got)
	}
	if got := NextCountFromToggle(&models.Entry{Count: 0, Completed: true}, goal3); got != 0 {
		t.Errorf("done by flag should reset to 0, got %d", got)
	}
	if got := NextCountFromToggle(&models.Entry{Count: 1}, goal3); got != 3 {
		t.Errorf("not done should jump to goal, got %d", got)
	}
	if got := NextCountFromToggle(nil, goal3); got != 3 {
		t.Errorf("missing entry should jump to goal, got %d", got)
	}
}

func TestToggleTwiceRestoresDoneState(t *testing.T) {
	for _, start := range []*models.Entry{nil, {Count: 1}, {Count: 3}, {Completed: true}} {
		before := IsDone(start, goal3)

		first := NextCountFromToggle(start, goal3)
		afterOne := &models.Entry{Count: first, Completed: CompletedFor(first, goal3)}
		if IsDone(afterOne, goal3) == before {
			t.Errorf("first toggle from %+v did not flip done state", start)
		}

		second := NextCountFromToggle(afterOne, goal3)
		afterTwo := &models.Entry{Count: second, Completed: CompletedFor(second, goal3)}
		if IsDone(afterTwo, goal3) != before {
			t.Errorf("two toggles from %+v did not restore done state", start)
		}
	}
}
