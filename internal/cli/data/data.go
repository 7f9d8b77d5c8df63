package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/transfer"
)

// ErrImportFailed is returned after an import that left at least one
// section unwritten. The summary has already been printed.
var ErrImportFailed = errors.New("import finished with errors")

type ExportCmd struct {
	Output string `short:"o" help:"Write the export to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	payload, err := transfer.Export(context.Background(), ctx.Store, owner)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d habits and %d entries to %s\n",
			len(payload.Habits), len(payload.Entries), c.Output)
	}
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"JSON file produced by 'habhub export'." type:"existingfile"`
	Legacy bool   `help:"Treat the file as a one-time migration from an older install."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	payload, err := transfer.Validate(raw)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	res := transfer.Import(ctx.Store, owner, payload, transfer.Options{Legacy: c.Legacy})
	fmt.Println(res.Summary())
	if res.HasFailure() {
		logger.Warn("Import finished with errors", "habits", res.Habits, "entries", res.Entries,
			"user_settings", res.UserSettings, "migration", res.Migration)
		return ErrImportFailed
	}
	return nil
}
