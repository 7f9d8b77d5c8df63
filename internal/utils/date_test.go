package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestParseDateKey(t *testing.T) {
	if _, err := ParseDateKey("2025-02-30"); err == nil {
		t.Error("expected error for non-existent date")
	}
	if _, err := ParseDateKey("2025/01/01"); err == nil {
		t.Error("expected error for wrong separator")
	}
	got, err := ParseDateKey("2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 31 {
		t.Errorf("parsed %v", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-01"},
		{"2025-03-01", -1, "2025-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2025-03-30", 0, "2025-03-30"},
	}
	for _, tt := range tests {
		if got := AddDays(tt.key, tt.n); got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.key, tt.n, got, tt.want)
		}
	}
}

func TestWeekday(t *testing.T) {
	// 2025-01-31 was a Friday
	if got := Weekday("2025-01-31"); got != 5 {
		t.Errorf("Weekday = %d, want 5", got)
	}
	if got := Weekday("2025-02-02"); got != 0 {
		t.Errorf("Weekday = %d, want 0", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		weekStart int
		want      string
	}{
		{"monday start from friday", "2025-01-31", 1, "2025-01-27"},
		{"sunday start from friday", "2025-01-31", 0, "2025-01-26"},
		{"monday start on monday", "2025-01-27", 1, "2025-01-27"},
		{"monday start from sunday", "2025-02-02", 1, "2025-01-27"},
		{"sunday start on sunday", "2025-02-02", 0, "2025-02-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.key, tt.weekStart); got != tt.want {
				t.Errorf("StartOfWeek(%s, %d) = %s, want %s", tt.key, tt.weekStart, got, tt.want)
			}
		})
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	tests := map[string]bool{
		"2025-01-31": true,
		"2025-01-30": false,
		"2025-02-28": true,
		"2024-02-28": false,
		"2024-02-29": true,
		"2025-04-30": true,
		"2025-12-31": true,
	}
	for key, want := range tests {
		if got := IsLastDayOfMonth(key); got != want {
			t.Errorf("IsLastDayOfMonth(%s) = %v, want %v", key, got, want)
		}
	}
}

func TestMonthBucket(t *testing.T) {
	if got := MonthBucket("2025-01-03"); got != "2025-01" {
		t.Errorf("MonthBucket = %s", got)
	}
}

func TestDateKeysBetween(t *testing.T) {
	got := DateKeysBetween("2025-02-27", "2025-03-02")
	want := []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DateKeysBetween = %v, want %v", got, want)
	}
	if got := DateKeysBetween("2025-03-02", "2025-03-01"); got != nil {
		t.Errorf("expected nil for inverted range, got %v", got)
	}
}

func TestLastNDays(t *testing.T) {
	got := LastNDays("2025-01-03", 3)
	want := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LastNDays = %v, want %v", got, want)
	}
	if LastNDays("2025-01-03", 0) != nil {
		t.Error("expected nil for n=0")
	}
}

func TestCreatedDateKey(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	tests := []struct {
		name    string
		local   *time.Location
		created time.Time
		want    string
	}{
		{"utc", time.UTC, time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC), "2025-01-01"},
		// 21:00 in New York is already the 31st in UTC
		{"evening west of utc", ny, time.Date(2025, 1, 30, 21, 0, 0, 0, ny).UTC(), "2025-01-30"},
		// 08:00 in Tokyo is still the previous day in UTC
		{"morning east of utc", tokyo, time.Date(2025, 1, 31, 8, 0, 0, 0, tokyo).UTC(), "2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := time.Local
			time.Local = tt.local
			defer func() { time.Local = orig }()

			if got := CreatedDateKey(tt.created); got != tt.want {
				t.Errorf("CreatedDateKey(%v) = %s, want %s", tt.created, got, tt.want)
			}
			if today := ToDateKey(tt.created.In(tt.local)); today != tt.want {
				t.Errorf("local day = %s, want %s", today, tt.want)
			}
		})
	}
}
