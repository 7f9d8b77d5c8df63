package habits

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/utils"
)

const maxNameLen = 20

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.ResolveHabit(owner, c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		if selected, err = ctx.Store.ListHabits(owner, false); err != nil {
			return err
		}
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.TodayKey()
	start := utils.AddDays(today, -(c.Days - 1))
	entries, err := ctx.Store.ListEntries(owner, start, today)
	if err != nil {
		return err
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	renderLog(os.Stdout, selected, entries, utils.DateKeysBetween(start, today))
	return nil
}

// logMarker is x for a done day, + for progress short of the goal and .
// for nothing logged.
func logMarker(entry *models.Entry, habit models.Habit) string {
	switch {
	case progress.IsDone(entry, habit):
		return "x"
	case progress.CurrentCount(entry) > 0:
		return "+"
	default:
		return "."
	}
}

func padName(name string) string {
	r := []rune(name)
	if len(r) > maxNameLen {
		return string(r[:maxNameLen-3]) + "..."
	}
	return name + strings.Repeat(" ", maxNameLen-len(r))
}

func renderLog(w io.Writer, habits []models.Habit, entries []models.Entry, days []string) {
	fmt.Fprint(w, padName("Habit"))
	for _, day := range days {
		fmt.Fprintf(w, " %5s", day[5:7]+"/"+day[8:10])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", maxNameLen+6*len(days)))

	for _, habit := range habits {
		fmt.Fprint(w, padName(habit.Name))
		for _, day := range days {
			var entry *models.Entry
			if e, ok := models.FindEntry(entries, habit.ID, day); ok {
				entry = &e
			}
			fmt.Fprintf(w, "  %s   ", logMarker(entry, habit))
		}
		fmt.Fprintln(w)
	}
}
