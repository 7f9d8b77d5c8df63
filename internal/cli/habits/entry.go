package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/entrywrite"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
)

// entryTarget loads what a single-entry write needs: the owner, the habit,
// the day and the recorder primed with that day's entries.
func entryTarget(ctx *cli.Context, ref, date string) (models.Habit, string, *entrywrite.Recorder, error) {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return models.Habit{}, "", nil, err
	}
	habit, err := ctx.ResolveHabit(owner, ref)
	if err != nil {
		return models.Habit{}, "", nil, err
	}
	if habit.Archived {
		return models.Habit{}, "", nil, fmt.Errorf("habit %q is archived", habit.Name)
	}
	day, err := ctx.ValidateDateKey(date)
	if err != nil {
		return models.Habit{}, "", nil, err
	}
	entries, err := ctx.Store.ListEntries(owner, day, day)
	if err != nil {
		return models.Habit{}, "", nil, err
	}
	return habit, day, ctx.Recorder(entries), nil
}

func printEntry(habit models.Habit, day string, entry models.Entry) {
	status := "not done"
	if progress.IsDone(&entry, habit) {
		status = "done"
	}
	fmt.Printf("%s on %s: %d/%d (%s)\n", habit.Name, day, entry.Count, habit.GoalCount, status)
}

type LogCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	By    int    `help:"Amount to add to the day's count (negative to subtract)." default:"1"`
	Set   *int   `help:"Set the day's count explicitly."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	habit, day, rec, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}

	var entry models.Entry
	if c.Set != nil {
		entry, err = rec.Set(context.Background(), habit, day, *c.Set)
	} else {
		entry, err = rec.Bump(context.Background(), habit, day, c.By)
	}
	if err != nil {
		return err
	}
	printEntry(habit, day, entry)
	return nil
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	habit, day, rec, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	entry, err := rec.Toggle(context.Background(), habit, day)
	if err != nil {
		return err
	}
	printEntry(habit, day, entry)
	return nil
}
