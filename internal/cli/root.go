package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habhub/internal/backup"
	"github.com/julianstephens/habhub/internal/config"
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/entrywrite"
	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/storage"
	"github.com/julianstephens/habhub/internal/storage/postgres"
	"github.com/julianstephens/habhub/internal/storage/sqlite"
	"github.com/julianstephens/habhub/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Session session.Provider
	Config  config.Config
	// Now is the clock behind today's key and creation stamps. Tests pin it.
	Now     func() time.Time
}

func (c *Context) clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// TodayKey returns the date key commands treat as today.
func (c *Context) TodayKey() string {
	return utils.ToDateKey(c.clock().Local())
}

// Owner resolves the current owner id.
func (c *Context) Owner(ctx context.Context) (string, error) {
	if c.Session == nil {
		return "", session.ErrNoSession
	}
	return c.Session.OwnerID(ctx)
}

// Settings returns the owner's settings, creating them from the config
// defaults on first use.
func (c *Context) Settings(ownerID string) (models.UserSettings, error) {
	settings, err := c.Store.GetSettings(ownerID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.UserSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings = models.UserSettings{
		OwnerID:   ownerID,
		WeekStart: c.Config.Defaults.WeekStartOr(constants.DefaultWeekStart),
		Language:  c.Config.Defaults.LanguageOr(constants.DefaultLanguage),
	}
	models.ApplyDefaultSettings(&settings)
	if err := c.Store.SaveSettings(settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to create settings: %w", err)
	}
	return settings, nil
}

// Recorder returns an entry recorder over entries already loaded for owner.
func (c *Context) Recorder(entries []models.Entry) *entrywrite.Recorder {
	sp := c.Session
	if sp == nil {
		sp = session.Static("")
	}
	return entrywrite.NewRecorder(c.Store, sp, entrywrite.NewCache(entries))
}

// IsSQLite reports whether the store is a local database file.
func (c *Context) IsSQLite() bool {
	return !postgres.IsConnString(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates a backup of a sqlite store and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveHabit finds a habit by id, then by exact name.
func (c *Context) ResolveHabit(ownerID, ref string) (models.Habit, error) {
	habit, err := c.Store.GetHabit(ownerID, ref)
	if err == nil {
		return habit, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	habit, err = c.Store.GetHabitByName(ownerID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	}
	return habit, err
}

var dayMap = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ParseWeekdays parses a comma-separated list of weekday names or indexes
// (0=Sunday, 6=Saturday).
func ParseWeekdays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if d, ok := dayMap[part]; ok {
			days = append(days, d)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, n)
	}
	if len(days) == 0 {
		return nil, errors.New("at least one weekday is required")
	}
	return days, nil
}

// ParseMonthDays parses a comma-separated list of days of month. "last"
// means the last calendar day.
func ParseMonthDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if part == "last" {
			days = append(days, constants.MonthEnd)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > constants.MonthEnd {
			return nil, fmt.Errorf("invalid day of month: %s", part)
		}
		days = append(days, n)
	}
	if len(days) == 0 {
		return nil, errors.New("at least one day of month is required")
	}
	return days, nil
}

// ScheduleFlags build a schedule from command-line flags.
type ScheduleFlags struct {
	Frequency string `help:"Frequency: daily, weekly_specific, monthly_specific, flexible or once."`
	Days      string `help:"Weekdays for weekly habits (e.g. mon,wed,fri or 1,3,5)."`
	MonthDays string `help:"Days of month for monthly habits (e.g. 1,15,last)."`
	Interval  string `help:"Bucket for flexible habits: week or month." default:"week"`
	Target    int    `help:"Completions per bucket for flexible habits." default:"1"`
	Date      string `help:"Date for one-off habits (YYYY-MM-DD)."`
}

// Set reports whether a frequency was given.
func (f ScheduleFlags) Set() bool {
	return strings.TrimSpace(f.Frequency) != ""
}

// Build returns the schedule the flags describe. An empty frequency is daily.
func (f ScheduleFlags) Build() (models.Schedule, error) {
	switch constants.Frequency(strings.TrimSpace(f.Frequency)) {
	case "", constants.FrequencyDaily:
		return models.DailySchedule{}, nil
	case constants.FrequencyWeeklySpecific:
		days, err := ParseWeekdays(f.Days)
		if err != nil {
			return nil, err
		}
		return models.WeeklySchedule{WeekDays: days}, nil
	case constants.FrequencyMonthlySpecific:
		days, err := ParseMonthDays(f.MonthDays)
		if err != nil {
			return nil, err
		}
		return models.MonthlySchedule{MonthDays: days}, nil
	case constants.FrequencyFlexible:
		return models.FlexibleSchedule{Interval: constants.Interval(f.Interval), TargetCount: f.Target}, nil
	case constants.FrequencyOnce:
		return models.OnceSchedule{TargetDate: f.Date}, nil
	default:
		return nil, fmt.Errorf("unknown frequency %q", f.Frequency)
	}
}

// FormatSchedule renders a schedule for listings.
func FormatSchedule(s models.Schedule) string {
	switch s := s.(type) {
	case models.WeeklySchedule:
		names := make([]string, 0, len(s.WeekDays))
		for _, d := range s.WeekDays {
			if d >= 0 && d < len(dayNames) {
				names = append(names, dayNames[d])
			}
		}
		return "weekly on " + strings.Join(names, ",")
	case models.MonthlySchedule:
		parts := make([]string, 0, len(s.MonthDays))
		for _, d := range s.MonthDays {
			if d == constants.MonthEnd {
				parts = append(parts, "last")
			} else {
				parts = append(parts, strconv.Itoa(d))
			}
		}
		return "monthly on " + strings.Join(parts, ",")
	case models.FlexibleSchedule:
		n := s.Normalized()
		return fmt.Sprintf("%d per %s", n.TargetCount, n.Interval)
	case models.OnceSchedule:
		return "once on " + s.TargetDate
	default:
		return "daily"
	}
}

// ValidateDateKey returns day, or today when day is empty.
func (c *Context) ValidateDateKey(day string) (string, error) {
	if day == "" {
		return c.TodayKey(), nil
	}
	if !utils.ValidDateKey(day) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	return day, nil
}

// HabitWriteError rewrites postgres schema drift errors on habit writes
// into actionable messages.
func (c *Context) HabitWriteError(err error) error {
	if err == nil || c.IsSQLite() {
		return err
	}
	if msg := postgres.FormatHabitWriteError(err); msg != err.Error() {
		return errors.New(msg)
	}
	return err
}

// OpenStore returns an unloaded store for a sqlite path or a PostgreSQL
// connection string. Connection strings carrying a password are refused.
func OpenStore(target string) (storage.Provider, error) {
	if !postgres.IsConnString(target) {
		return sqlite.NewStore(target), nil
	}
	if err := postgres.ValidateConnString(target); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w. Store it with 'habhub keyring set', export %s without a password, "+
				"or use a .pgpass file", err, constants.EnvDBConnection)
		}
		return nil, err
	}
	return postgres.New(target), nil
}
