package constants

const (
	AppName            = "habhub"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session-owner"
	DefaultConfigDir   = "~/.config/habhub"
	DefaultConfigPath  = "~/.config/habhub/habhub.db"
	ConfigFileName     = "config.toml"
	Version            = "v0.1.0"

	// DateFormat is the date key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Environment overrides
	EnvDBConnection = "HABHUB_DB_CONNECTION"
	EnvOwner        = "HABHUB_OWNER"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habhub-"
	BackupFileSuffix = ".db"

	// MaxImportItems caps each array of an import payload
	MaxImportItems = 10000

	// Analytics windows
	ConsistencyDays = 30
	BarDays         = 7
	HeatmapDays     = 119

	// LocalOwnerID is used by single-user sqlite installs that never logged in
	LocalOwnerID = "local"
)
