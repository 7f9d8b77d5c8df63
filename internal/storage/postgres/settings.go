package postgres

import (
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
)

func (s *Store) GetSettings(ownerID string) (models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.QueryRow(`SELECT user_id, week_start, language, migration_done
		FROM user_settings WHERE user_id = $1`, ownerID).
		Scan(&settings.OwnerID, &settings.WeekStart, &settings.Language, &settings.MigrationDone)
	if err != nil {
		return models.UserSettings{}, classify(err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// EnsureSettings creates default settings for ownerID unless a row exists.
func (s *Store) EnsureSettings(ownerID string) (models.UserSettings, error) {
	_, err := s.db.Exec(`INSERT INTO user_settings (user_id, week_start, language) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`,
		ownerID, constants.DefaultWeekStart, constants.DefaultLanguage)
	if err != nil {
		return models.UserSettings{}, classify(err)
	}
	return s.GetSettings(ownerID)
}

func (s *Store) SaveSettings(settings models.UserSettings) error {
	_, err := s.db.Exec(`
		INSERT INTO user_settings (user_id, week_start, language, migration_done) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			week_start = EXCLUDED.week_start, language = EXCLUDED.language,
			migration_done = EXCLUDED.migration_done`,
		settings.OwnerID, settings.WeekStart, settings.Language, settings.MigrationDone)
	return classify(err)
}

func (s *Store) MarkMigrationDone(ownerID string) error {
	if _, err := s.EnsureSettings(ownerID); err != nil {
		return err
	}
	_, err := s.db.Exec(`UPDATE user_settings SET migration_done = TRUE WHERE user_id = $1`, ownerID)
	return classify(err)
}
