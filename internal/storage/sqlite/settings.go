package sqlite

import (
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/storage"
)

func (s *Store) GetSettings(ownerID string) (models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.QueryRow(`SELECT user_id, week_start, language, migration_done
		FROM user_settings WHERE user_id = ?`, ownerID).
		Scan(&settings.OwnerID, &settings.WeekStart, &settings.Language, &settings.MigrationDone)
	if err != nil {
		return models.UserSettings{}, storage.Classify(err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) EnsureSettings(ownerID string) (models.UserSettings, error) {
	_, err := s.db.Exec(`INSERT INTO user_settings (user_id, week_start, language) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		ownerID, constants.DefaultWeekStart, constants.DefaultLanguage)
	if err != nil {
		return models.UserSettings{}, storage.Classify(err)
	}
	return s.GetSettings(ownerID)
}

func (s *Store) SaveSettings(settings models.UserSettings) error {
	_, err := s.db.Exec(`
		INSERT INTO user_settings (user_id, week_start, language, migration_done) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			week_start = excluded.week_start, language = excluded.language,
			migration_done = excluded.migration_done`,
		settings.OwnerID, settings.WeekStart, settings.Language, settings.MigrationDone)
	return storage.Classify(err)
}

func (s *Store) MarkMigrationDone(ownerID string) error {
	if _, err := s.EnsureSettings(ownerID); err != nil {
		return err
	}
	_, err := s.db.Exec(`UPDATE user_settings SET migration_done = 1 WHERE user_id = ?`, ownerID)
	return storage.Classify(err)
}
