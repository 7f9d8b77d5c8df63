package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/transfer"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"SQLite path or PostgreSQL connection string to copy the owner's habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habhub storage at: %s\n", ctx.Store.GetConfigPath())

	owner, err := ctx.Owner(context.Background())
	if errors.Is(err, session.ErrNoSession) {
		if c.Source != "" {
			return errors.New("--source needs an owner; use --owner or 'habhub session login <owner>'")
		}
		fmt.Println("No session yet. Run 'habhub session login <owner>' before tracking habits.")
		return nil
	}
	if err != nil {
		return err
	}

	if c.Source != "" {
		return c.copyFrom(ctx, owner)
	}
	_, err = ctx.Settings(owner)
	return err
}

// reset removes the sqlite file so Init starts from an empty schema.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("--force only applies to SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" && samePath(c.Source, dbPath) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyFrom exports owner's data from the source store and imports it here.
func (c *InitCmd) copyFrom(ctx *cli.Context, owner string) error {
	src, err := cli.OpenStore(c.Source)
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Printf("Copying data for %s from: %s\n", owner, src.GetConfigPath())
	payload, err := transfer.Export(context.Background(), src, owner)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	res := transfer.Import(ctx.Store, owner, payload, transfer.Options{})
	fmt.Println(res.Summary())
	if res.HasFailure() {
		return errors.New("copy from source finished with errors")
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
