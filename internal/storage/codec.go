package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
)

// EncodeSchedule returns the frequency column and the JSON schedule column
// for h. The accent color rides inside the schedule object.
func EncodeSchedule(h models.Habit) (string, []byte, error) {
	freq, wire := models.ScheduleToWire(h.Schedule)
	wire.AccentColor = h.AccentColor
	raw, err := json.Marshal(wire)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode schedule for habit %s: %w", h.ID, err)
	}
	return string(freq), raw, nil
}

// DecodeSchedule fills h.Schedule and h.AccentColor from stored columns.
func DecodeSchedule(h *models.Habit, freq string, raw []byte) error {
	var wire models.WireSchedule
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return fmt.Errorf("failed to decode schedule for habit %s: %w", h.ID, err)
		}
	}
	s, err := models.ScheduleFromWire(constants.Frequency(freq), wire)
	if err != nil {
		return fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.Schedule = s
	h.AccentColor = wire.AccentColor
	return nil
}

// Bounds turns open date bounds into values usable in a range filter.
func Bounds(start, end string) (string, string) {
	if start == "" {
		start = "0000-00-00"
	}
	if end == "" {
		end = "9999-99-99"
	}
	return start, end
}
