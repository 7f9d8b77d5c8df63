package models

import "github.com/julianstephens/habhub/internal/constants"

// UserSettings holds the per-owner preferences
type UserSettings struct {
	OwnerID       string `json:"user_id"`
	WeekStart     int    `json:"week_start"`     // 0 = Sunday, 1 = Monday
	Language      string `json:"language"`       // "en" or "ja"
	MigrationDone bool   `json:"migration_done"` // legacy import already ran
}

// DefaultSettings returns the settings a new owner starts with.
func DefaultSettings(ownerID string) UserSettings {
	return UserSettings{
		OwnerID:   ownerID,
		WeekStart: constants.DefaultWeekStart,
		Language:  constants.DefaultLanguage,
	}
}

// ApplyDefaultSettings fills in values missing from older rows.
func ApplyDefaultSettings(s *UserSettings) {
	if s.Language == "" {
		s.Language = constants.DefaultLanguage
	}
	if s.WeekStart != 0 && s.WeekStart != 1 {
		s.WeekStart = constants.DefaultWeekStart
	}
}
