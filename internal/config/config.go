// Package config loads the habhub config.toml file and resolves the
// effective settings from flags, environment and file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/habhub/internal/constants"
)

// Config mirrors config.toml.
type Config struct {
	// Database is a sqlite file path or a PostgreSQL connection string.
	Database string   `toml:"database"`
	Owner    string   `toml:"owner"`
	Debug    bool     `toml:"debug"`
	Defaults Defaults `toml:"defaults"`
}

// Defaults seed the settings of an owner that has none yet.
type Defaults struct {
	WeekStart *int   `toml:"week_start"`
	Language  string `toml:"language"`
}

// Overrides are values supplied on the command line. Empty fields do not
// override anything.
type Overrides struct {
	Database string
	Owner    string
	Debug    bool
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DefaultPath returns ~/.config/habhub/config.toml.
func DefaultPath() (string, error) {
	dir, err := ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// Load reads the config file at path. A missing file yields an empty
// config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Database = strings.TrimSpace(cfg.Database)
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	return &cfg, nil
}

// Resolve applies environment variables and then flag overrides on top of
// the file values, and fills in the default database path.
func (c Config) Resolve(o Overrides) (Config, error) {
	out := c
	if v := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); v != "" {
		out.Database = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvOwner)); v != "" {
		out.Owner = v
	}
	if o.Database != "" {
		out.Database = o.Database
	}
	if o.Owner != "" {
		out.Owner = o.Owner
	}
	out.Debug = out.Debug || o.Debug

	if out.Database == "" {
		out.Database = constants.DefaultConfigPath
	}
	if !strings.Contains(out.Database, "://") && !strings.Contains(out.Database, "=") {
		expanded, err := ExpandHome(out.Database)
		if err != nil {
			return Config{}, err
		}
		out.Database = expanded
	}
	return out, nil
}

// WeekStartOr returns the configured default week start or the built-in one.
func (d Defaults) WeekStartOr(fallback int) int {
	if d.WeekStart == nil {
		return fallback
	}
	return *d.WeekStart
}

// LanguageOr returns the configured default language or fallback.
func (d Defaults) LanguageOr(fallback string) string {
	if d.Language == "" {
		return fallback
	}
	return d.Language
}
