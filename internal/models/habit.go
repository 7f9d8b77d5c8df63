package models

import (
	"encoding/json"
	"time"

	"github.com/julianstephens/habhub/internal/constants"
)

// Habit represents a recurring or one-off commitment
type Habit struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Schedule    Schedule
	GoalCount   int
	ExternalURL string
	AccentColor string
	Archived    bool
	SortOrder   int
	CreatedAt   time.Time
}

// Frequency returns the policy name, daily when no schedule is set.
func (h Habit) Frequency() constants.Frequency {
	if h.Schedule == nil {
		return constants.FrequencyDaily
	}
	return h.Schedule.Frequency()
}

// IsOnce reports whether the habit is a one-off task.
func (h Habit) IsOnce() bool {
	return h.Frequency() == constants.FrequencyOnce
}

// habitJSON is the export/import wire shape of a habit
type habitJSON struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"user_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Frequency   string       `json:"frequency"`
	GoalCount   int          `json:"goal_count"`
	Schedule    WireSchedule `json:"schedule"`
	ExternalURL *string      `json:"external_url"`
	Archived    bool         `json:"archived"`
	SortOrder   int          `json:"sort_order"`
	CreatedAt   time.Time    `json:"created_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h Habit) MarshalJSON() ([]byte, error) {
	freq, wire := ScheduleToWire(h.Schedule)
	wire.AccentColor = h.AccentColor
	return json.Marshal(habitJSON{
		ID:          h.ID,
		OwnerID:     h.OwnerID,
		Name:        h.Name,
		Description: optional(h.Description),
		Frequency:   string(freq),
		GoalCount:   h.GoalCount,
		Schedule:    wire,
		ExternalURL: optional(h.ExternalURL),
		Archived:    h.Archived,
		SortOrder:   h.SortOrder,
		CreatedAt:   h.CreatedAt,
	})
}

func (h *Habit) UnmarshalJSON(data []byte) error {
	var raw habitJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sched, err := ScheduleFromWire(constants.Frequency(raw.Frequency), raw.Schedule)
	if err != nil {
		return err
	}
	*h = Habit{
		ID:          raw.ID,
		OwnerID:     raw.OwnerID,
		Name:        raw.Name,
		Description: deref(raw.Description),
		Schedule:    sched,
		GoalCount:   raw.GoalCount,
		ExternalURL: deref(raw.ExternalURL),
		AccentColor: raw.Schedule.AccentColor,
		Archived:    raw.Archived,
		SortOrder:   raw.SortOrder,
		CreatedAt:   raw.CreatedAt,
	}
	return nil
}
