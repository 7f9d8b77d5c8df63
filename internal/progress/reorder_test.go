package progress

import (
	"reflect"
	"testing"

	"github.com/julianstephens/habhub/internal/models"
)

func habitsWithOrders(orders ...int) []models.Habit {
	ids := []string{"a", "b", "c", "d"}
	habits := make([]models.Habit, len(orders))
	for i, o := range orders {
		habits[i] = models.Habit{ID: ids[i], SortOrder: o}
	}
	return habits
}

func TestBuildReorderPlanSwapsAndReindexes(t *testing.T) {
	habits := habitsWithOrders(10, 20, 30)
	plan := BuildReorderPlan(habits, "b", MoveUp)
	if plan == nil {
		t.Fatal("expected a plan")
	}

	var ids []string
	for _, h := range plan.Reordered {
		ids = append(ids, h.ID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "a", "c"}) {
		t.Errorf("order = %v", ids)
	}

	want := []SortUpdate{{"b", 0}, {"a", 1}, {"c", 2}}
	if !reflect.DeepEqual(plan.Updates, want) {
		t.Errorf("updates = %v, want %v", plan.Updates, want)
	}
	for i, h := range plan.Reordered {
		if h.SortOrder != i {
			t.Errorf("habit %s sort order = %d, want %d", h.ID, h.SortOrder, i)
		}
	}

	if habits[0].ID != "a" || habits[0].SortOrder != 10 {
		t.Error("input slice was mutated")
	}
}

func TestBuildReorderPlanBoundaries(t *testing.T) {
	habits := habitsWithOrders(0, 1)
	if BuildReorderPlan(habits, "a", MoveUp) != nil {
		t.Error("moving first habit up should be a no-op")
	}
	if BuildReorderPlan(habits, "b", MoveDown) != nil {
		t.Error("moving last habit down should be a no-op")
	}
	if BuildReorderPlan(habits, "zzz", MoveDown) != nil {
		t.Error("unknown habit should be a no-op")
	}
}

func TestBuildReorderPlanMoveDown(t *testing.T) {
	plan := BuildReorderPlan(habitsWithOrders(0, 1, 2, 3), "b", MoveDown)
	if plan == nil {
		t.Fatal("expected a plan")
	}
	want := []SortUpdate{{"a", 0}, {"c", 1}, {"b", 2}, {"d", 3}}
	if !reflect.DeepEqual(plan.Updates, want) {
		t.Errorf("updates = %v, want %v", plan.Updates, want)
	}
}
