package constants

const (
	// Settings keys accepted by `habhub settings set`
	SettingWeekStart = "week_start"
	SettingLanguage  = "language"

	// Default settings values
	DefaultWeekStart = 1
	DefaultLanguage  = "en"

	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
)
