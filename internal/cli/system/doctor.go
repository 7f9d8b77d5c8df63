package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habhub/internal/backup"
	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/utils"
	"github.com/julianstephens/habhub/internal/validation"
)

// versioned is implemented by stores that track a schema version.
type versioned interface {
	SchemaVersion() (current, latest int, err error)
}

// warning is a check result that does not fail the run.
type warning struct{ msg string }

func (w *warning) Error() string { return w.msg }

func warn(format string, args ...interface{}) error {
	return &warning{msg: fmt.Sprintf(format, args...)}
}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsDB checks are skipped when the database cannot be loaded
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Data validation", run: checkData, needsDB: true},
	{name: "Clock/timezone", run: checkClock},
}

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := false
	reachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		failed = true
		reachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, chk := range checks {
		if chk.needsDB && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", chk.name)
			continue
		}
		err := chk.run(ctx)
		var w *warning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", chk.name)
		case errors.As(err, &w):
			fmt.Printf("⚠ %s: WARNING\n   %v\n", chk.name, w)
		default:
			fmt.Printf("❌ %s: FAIL\n   Error: %v\n", chk.name, err)
			failed = true
		}
	}

	fmt.Println()
	if failed {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func schemaVersion(ctx *cli.Context) (int, int, bool, error) {
	v, ok := ctx.Store.(versioned)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habhub migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return warn("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return warn("no backups found - consider creating one with 'habhub backup create'")
	}
	return nil
}

// checkData revalidates the stored habits and entries of the current owner.
func checkData(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if errors.Is(err, session.ErrNoSession) {
		return warn("no active session, owner data not checked")
	}
	if err != nil {
		return err
	}

	habits, err := ctx.Store.ListHabits(owner, true)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true
		if err := validation.ValidateHabit(h); err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
	}

	entries, err := ctx.Store.ListEntries(owner, "", "")
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	for _, e := range entries {
		if !utils.ValidDateKey(e.DateKey) {
			return fmt.Errorf("entry for habit %s has invalid date %q", e.HabitID, e.DateKey)
		}
		if e.Count < 0 {
			return fmt.Errorf("entry for habit %s on %s has negative count %d", e.HabitID, e.DateKey, e.Count)
		}
		if !ids[e.HabitID] {
			return fmt.Errorf("entry on %s references unknown habit %s", e.DateKey, e.HabitID)
		}
	}
	return nil
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC, day boundaries follow UTC\n")
	}
	return nil
}
