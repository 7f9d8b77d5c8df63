package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its entries as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

// habitDump is the shape printed by 'debug dump-habit'.
type habitDump struct {
	Habit   models.Habit   `json:"habit"`
	Entries []models.Entry `json:"entries"`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habit, err := ctx.ResolveHabit(owner, cmd.Habit)
	if err != nil {
		return err
	}
	all, err := ctx.Store.ListEntries(owner, "", "")
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	dump := habitDump{Habit: habit, Entries: []models.Entry{}}
	for _, e := range all {
		if e.HabitID == habit.ID {
			dump.Entries = append(dump.Entries, e)
		}
	}
	return printJSON(dump)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
