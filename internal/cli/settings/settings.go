package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/validation"
)

var weekStartNames = map[int]string{0: "Sunday", 1: "Monday"}

type SettingsCmd struct {
	List bool `help:"List current settings."`

	WeekStart *int    `help:"First day of the week: 0 (Sunday) or 1 (Monday)."`
	Language  *string `help:"Display language: en or ja."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	settings, err := ctx.Settings(owner)
	if err != nil {
		return err
	}

	if c.List || (c.WeekStart == nil && c.Language == nil) {
		fmt.Println("Current Settings:")
		fmt.Printf("  week_start:     %d (%s)\n", settings.WeekStart, weekStartNames[settings.WeekStart])
		fmt.Printf("  language:       %s\n", settings.Language)
		fmt.Printf("  migration_done: %v\n", settings.MigrationDone)
		return nil
	}

	if c.WeekStart != nil {
		if err := validation.ValidateWeekStart(*c.WeekStart); err != nil {
			return err
		}
		settings.WeekStart = *c.WeekStart
	}
	if c.Language != nil {
		if err := validation.ValidateLanguage(*c.Language); err != nil {
			return err
		}
		settings.Language = *c.Language
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
