package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habhub/internal/cli"
)

// migrator is implemented by stores with versioned schema files.
type migrator interface {
	versioned
	Migrate(logFn func(string)) (int, error)
}

var errNoMigrations = errors.New("migrate is not supported by this storage backend")

type MigrateCmd struct {
	Status bool `help:"Only report the schema version."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errNoMigrations
	}

	if c.Status {
		if err := ctx.Store.Load(); err != nil {
			return err
		}
		current, latest, err := m.SchemaVersion()
		if err != nil {
			return err
		}
		fmt.Printf("Schema version %d of %d", current, latest)
		if pending := latest - current; pending > 0 {
			fmt.Printf(" (%d pending, run 'habhub migrate')", pending)
		}
		fmt.Println()
		return nil
	}

	applied, err := m.Migrate(func(msg string) { fmt.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	switch applied {
	case 0:
		fmt.Println("Database is up to date.")
	case 1:
		fmt.Println("\nApplied 1 migration.")
	default:
		fmt.Printf("\nApplied %d migrations.\n", applied)
	}
	return nil
}
