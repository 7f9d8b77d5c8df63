package habits

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/recurrence"
)

type TodayCmd struct {
	Date string `help:"Show another day instead of today (YYYY-MM-DD)."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	day, err := ctx.ValidateDateKey(c.Date)
	if err != nil {
		return err
	}
	data, err := ctx.LoadDay(owner, day)
	if err != nil {
		return err
	}
	renderToday(os.Stdout, day, data)
	return nil
}

func renderToday(w io.Writer, day string, data cli.DayData) {
	due := recurrence.DueHabits(data.Habits, day, data.Entries, data.Settings)
	if len(due) == 0 {
		fmt.Fprintf(w, "Nothing due on %s.\n", day)
		return
	}

	fmt.Fprintf(w, "Habits for %s:\n\n", day)
	done := 0
	for _, habit := range due {
		var entry *models.Entry
		if e, ok := models.FindEntry(data.Entries, habit.ID, day); ok {
			entry = &e
		}
		status := "[ ]"
		if progress.IsDone(entry, habit) {
			status = "[x]"
			done++
		}
		line := fmt.Sprintf("%s %s", status, habit.Name)
		if habit.GoalCount > 1 {
			line += fmt.Sprintf("  %d/%d", progress.CurrentCount(entry), habit.GoalCount)
		}
		if label, ok := cli.PeriodLabel(habit, data.Entries, day, data.Settings); ok {
			line += "  (" + label + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nDone: %d/%d\n", done, len(due))
}
