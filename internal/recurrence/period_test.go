package recurrence

import (
	"testing"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
)

func TestPeriodProgress(t *testing.T) {
	week := with(models.FlexibleSchedule{Interval: constants.IntervalWeek, TargetCount: 3})
	month := with(models.FlexibleSchedule{Interval: constants.IntervalMonth, TargetCount: 4})

	entries := []models.Entry{
		done("2025-01-02"),
		done("2025-01-26"), // previous monday-start week
		done("2025-01-27"),
		done("2025-01-29"),
		{HabitID: "h", DateKey: "2025-01-30", Count: 0},
	}

	tests := []struct {
		name  string
		habit models.Habit
		want  Progress
	}{
		{"week", week, Progress{Current: 2, Target: 3}},
		{"month", month, Progress{Current: 4, Target: 4}},
		{"defaults", with(models.FlexibleSchedule{}), Progress{Current: 2, Target: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PeriodProgress(tt.habit, entries, today, mondayStart)
			if !ok {
				t.Fatal("expected flexible habit to report progress")
			}
			if got != tt.want {
				t.Errorf("PeriodProgress = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, ok := PeriodProgress(baseHabit(), entries, today, mondayStart); ok {
		t.Error("daily habit should not report period progress")
	}
}

func TestBucket(t *testing.T) {
	if got := Bucket(constants.IntervalWeek, today, 1); got != "2025-01-27" {
		t.Errorf("monday week bucket = %s", got)
	}
	if got := Bucket(constants.IntervalWeek, today, 0); got != "2025-01-26" {
		t.Errorf("sunday week bucket = %s", got)
	}
	if got := Bucket(constants.IntervalMonth, today, 1); got != "2025-01-01" {
		t.Errorf("month bucket = %s", got)
	}
}

func TestProgressMet(t *testing.T) {
	if (Progress{Current: 1, Target: 2}).Met() {
		t.Error("1/2 should not be met")
	}
	if !(Progress{Current: 2, Target: 2}).Met() {
		t.Error("2/2 should be met")
	}
}
