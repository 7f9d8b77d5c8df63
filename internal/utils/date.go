package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habhub/internal/constants"
)

// ToDateKey formats t as a YYYY-MM-DD date key in t's own location.
func ToDateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateKey parses a YYYY-MM-DD date key into midnight UTC of that day.
// UTC keeps day arithmetic free of DST shifts.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// ValidDateKey reports whether key is a well-formed calendar date.
func ValidDateKey(key string) bool {
	_, err := ParseDateKey(key)
	return err == nil
}

func mustParse(key string) time.Time {
	t, err := ParseDateKey(key)
	if err != nil {
		panic(err)
	}
	return t
}

// AddDays shifts a date key by n calendar days. Panics on a malformed key.
func AddDays(key string, n int) string {
	return ToDateKey(mustParse(key).AddDate(0, 0, n))
}

// Weekday returns the weekday index of key, 0 = Sunday.
func Weekday(key string) int {
	return int(mustParse(key).Weekday())
}

// DayOfMonth returns the day-of-month component of key.
func DayOfMonth(key string) int {
	return mustParse(key).Day()
}

// StartOfWeek returns the most recent day on or before key whose weekday is weekStart.
func StartOfWeek(key string, weekStart int) string {
	diff := (Weekday(key) - weekStart + 7) % 7
	return AddDays(key, -diff)
}

// IsLastDayOfMonth reports whether the day after key falls in another month.
func IsLastDayOfMonth(key string) bool {
	d := mustParse(key)
	return d.AddDate(0, 0, 1).Month() != d.Month()
}

// MonthBucket returns the YYYY-MM prefix shared by every key in key's month.
func MonthBucket(key string) string {
	return key[:7]
}

// DateKeysBetween returns every key from start to end inclusive, oldest first.
func DateKeysBetween(start, end string) []string {
	if start > end {
		return nil
	}
	var keys []string
	for k := start; k <= end; k = AddDays(k, 1) {
		keys = append(keys, k)
	}
	return keys
}

// LastNDays returns the n keys ending at today, oldest first.
func LastNDays(today string, n int) []string {
	if n <= 0 {
		return nil
	}
	return DateKeysBetween(AddDays(today, -(n - 1)), today)
}

// CreatedDateKey returns the local calendar day a habit was created on.
// Stores hand back UTC timestamps, so the key is taken after converting to
// time.Local, the calendar today's key comes from.
func CreatedDateKey(createdAt time.Time) string {
	return ToDateKey(createdAt.Local())
}
