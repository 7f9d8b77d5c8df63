package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/cli/backups"
	"github.com/julianstephens/habhub/internal/cli/data"
	"github.com/julianstephens/habhub/internal/cli/habits"
	"github.com/julianstephens/habhub/internal/cli/settings"
	"github.com/julianstephens/habhub/internal/cli/system"
	"github.com/julianstephens/habhub/internal/config"
	"github.com/julianstephens/habhub/internal/constants"
	herrors "github.com/julianstephens/habhub/internal/errors"
	"github.com/julianstephens/habhub/internal/keyring"
	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/storage"
	"github.com/julianstephens/habhub/internal/storage/postgres"
	"github.com/julianstephens/habhub/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path" default:"~/.config/habhub/config.toml"`
	Database string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, environment or .pgpass instead."`
	Owner    string `help:"Owner id to read and write habits as."`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habhub storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks on storage and data."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today   habits.TodayCmd   `cmd:"" help:"Show the habits due today."`
	Log     habits.LogCmd     `cmd:"" help:"Add to (or set) a habit's count for a day."`
	Toggle  habits.ToggleCmd  `cmd:"" help:"Mark a habit done or not done for a day."`
	Stats   habits.StatsCmd   `cmd:"" help:"Show consistency, streak and activity."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits."`
	Export  data.ExportCmd    `cmd:"" help:"Export habits, entries and settings as JSON."`
	Import  data.ImportCmd    `cmd:"" help:"Import a JSON export."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage settings."`
	Session  system.SessionCmd    `cmd:"" help:"Manage the active owner."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the database connection string in the OS keyring."`

	DebugTools system.DebugCmd `cmd:"" name:"debug" help:"Debug utilities." hidden:""`
}

// storeless commands run before (or without) an initialized database, or
// open it themselves
var storeless = map[string]bool{"init": true, "migrate": true, "doctor": true, "session": true, "keyring": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with schedules, streaks and a terminal UI"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	fileCfg, err := config.Load(CLI.Config)
	if err != nil {
		herrors.Fatal(err)
	}
	cfg, err := fileCfg.Resolve(config.Overrides{Database: CLI.Database, Owner: CLI.Owner, Debug: CLI.Debug})
	if err != nil {
		herrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		herrors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		herrors.Fatal(err)
	}
	defer store.Close()

	providers := []session.Provider{session.Static(cfg.Owner), session.Keyring{}}
	if _, isSQLite := store.(*sqlite.Store); isSQLite {
		providers = append(providers, session.Static(constants.LocalOwnerID))
	}

	appCtx := &cli.Context{
		Store:   store,
		Session: session.Chain(providers...),
		Config:  cfg,
	}

	command := strings.Fields(ctx.Command())[0]
	if !storeless[command] {
		if err := store.Load(); err != nil {
			herrors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "database", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		herrors.Fatal(err)
	}
}

// openStore picks the backend for the resolved database target. A keyring
// connection string replaces the default sqlite path.
func openStore(cfg config.Config) (storage.Provider, error) {
	target := cfg.Database
	if defaultPath, err := config.ExpandHome(constants.DefaultConfigPath); err == nil && target == defaultPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			// the keyring is trusted to hold a password
			logger.Debug("Using connection string from keyring")
			return postgres.New(connStr), nil
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring unavailable, using the default database", "error", err)
		}
	}

	return cli.OpenStore(target)
}
