package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habhub/internal/constants"
)

func TestHabitJSONWireShape(t *testing.T) {
	h := Habit{
		ID:          "h1",
		OwnerID:     "u1",
		Name:        "Read",
		Schedule:    FlexibleSchedule{Interval: constants.IntervalMonth, TargetCount: 3},
		GoalCount:   2,
		AccentColor: "#FF3B30",
		SortOrder:   4,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["frequency"] != "flexible" {
		t.Errorf("frequency = %v", raw["frequency"])
	}
	sched := raw["schedule"].(map[string]interface{})
	if sched["interval"] != "month" || sched["targetIntervalCount"] != float64(3) || sched["accentColor"] != "#FF3B30" {
		t.Errorf("schedule = %v", sched)
	}
	if raw["description"] != nil {
		t.Errorf("empty description should encode as null, got %v", raw["description"])
	}
}

func TestHabitUnmarshalEachFrequency(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Schedule
	}{
		{"daily", `{"frequency":"daily","schedule":{}}`, DailySchedule{}},
		{"weekly", `{"frequency":"weekly_specific","schedule":{"weekDays":[1,3,5]}}`, WeeklySchedule{WeekDays: []int{1, 3, 5}}},
		{"monthly", `{"frequency":"monthly_specific","schedule":{"monthDays":[1,32]}}`, MonthlySchedule{MonthDays: []int{1, 32}}},
		{"flexible", `{"frequency":"flexible","schedule":{"interval":"week","targetIntervalCount":2}}`, FlexibleSchedule{Interval: constants.IntervalWeek, TargetCount: 2}},
		{"once", `{"frequency":"once","schedule":{"targetDate":"2025-01-31"}}`, OnceSchedule{TargetDate: "2025-01-31"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Habit
			if err := json.Unmarshal([]byte(tt.json), &h); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(h.Schedule, tt.want) {
				t.Errorf("schedule = %#v, want %#v", h.Schedule, tt.want)
			}
		})
	}
}

func TestHabitUnmarshalUnknownFrequency(t *testing.T) {
	var h Habit
	if err := json.Unmarshal([]byte(`{"frequency":"hourly"}`), &h); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestFlexibleNormalized(t *testing.T) {
	got := FlexibleSchedule{}.Normalized()
	if got.Interval != constants.IntervalWeek || got.TargetCount != 1 {
		t.Errorf("Normalized = %#v", got)
	}
}

func TestNilScheduleIsDaily(t *testing.T) {
	if (Habit{}).Frequency() != constants.FrequencyDaily {
		t.Error("expected daily for nil schedule")
	}
}
