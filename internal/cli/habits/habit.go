package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/tui/forms"
	"github.com/julianstephens/habhub/internal/utils"
	"github.com/julianstephens/habhub/internal/validation"
)

// ErrOrderNotSaved is returned when a reorder could not be persisted. The
// stored order is unchanged.
var ErrOrderNotSaved = errors.New("order not saved")

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show one habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Move    HabitMoveCmd    `cmd:"" help:"Move a habit up or down in the list."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit log (ASCII history)."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Description string `help:"Optional description."`
	Goal        int    `help:"Daily goal count." default:"1"`
	URL         string `name:"url" help:"Optional link shown with the habit."`
	Color       string `help:"Accent color (e.g. #FF3B30)."`
	Interactive bool   `short:"i" help:"Fill in the habit with an interactive form."`

	cli.ScheduleFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}

	var habit models.Habit
	if c.Interactive {
		draft := forms.NewHabitDraft()
		draft.Name = c.Name
		if err := forms.NewHabitForm(draft).Run(); err != nil {
			return err
		}
		if habit, err = draft.Habit(); err != nil {
			return err
		}
	} else {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("habit name is required (or use --interactive)")
		}
		schedule, err := c.ScheduleFlags.Build()
		if err != nil {
			return err
		}
		habit = models.Habit{
			Name:        strings.TrimSpace(c.Name),
			Description: c.Description,
			Schedule:    schedule,
			GoalCount:   c.Goal,
			ExternalURL: c.URL,
			AccentColor: c.Color,
		}
	}

	created, err := ctx.CreateHabit(owner, habit)
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s (%s)\n", created.Name, cli.FormatSchedule(created.Schedule))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit name or id."`
	Name        string  `help:"New name."`
	Description *string `help:"New description."`
	Goal        int     `help:"New daily goal count."`
	URL         *string `name:"url" help:"New link."`
	Color       string  `help:"New accent color."`

	cli.ScheduleFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habit, err := ctx.ResolveHabit(owner, c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != "" && c.Name != habit.Name {
		if _, err := ctx.Store.GetHabitByName(owner, c.Name); err == nil {
			return fmt.Errorf("habit with name %q already exists", c.Name)
		}
		habit.Name = c.Name
		updated = true
	}
	if c.Description != nil {
		habit.Description = *c.Description
		updated = true
	}
	if c.Goal != 0 {
		habit.GoalCount = c.Goal
		updated = true
	}
	if c.URL != nil {
		habit.ExternalURL = *c.URL
		updated = true
	}
	if c.Color != "" {
		habit.AccentColor = c.Color
		updated = true
	}
	if c.ScheduleFlags.Set() {
		schedule, err := c.ScheduleFlags.Build()
		if err != nil {
			return err
		}
		habit.Schedule = schedule
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return ctx.HabitWriteError(err)
	}
	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habits, err := ctx.Store.ListHabits(owner, c.Archived)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.Archived {
			status = " [ARCHIVED]"
		}
		goal := ""
		if h.GoalCount > 1 {
			goal = fmt.Sprintf(", goal %d", h.GoalCount)
		}
		fmt.Printf("%2d. %s (%s%s)%s\n", h.SortOrder+1, h.Name, cli.FormatSchedule(h.Schedule), goal, status)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habit, err := ctx.ResolveHabit(owner, c.Habit)
	if err != nil {
		return err
	}

	fmt.Printf("Name:       %s\n", habit.Name)
	fmt.Printf("ID:         %s\n", habit.ID)
	if habit.Description != "" {
		fmt.Printf("About:      %s\n", habit.Description)
	}
	fmt.Printf("Schedule:   %s\n", cli.FormatSchedule(habit.Schedule))
	fmt.Printf("Goal:       %d per day\n", habit.GoalCount)
	if habit.ExternalURL != "" {
		fmt.Printf("Link:       %s\n", habit.ExternalURL)
	}
	fmt.Printf("Color:      %s\n", habit.AccentColor)
	fmt.Printf("Created:    %s\n", utils.CreatedDateKey(habit.CreatedAt))
	fmt.Printf("Archived:   %v\n", habit.Archived)
	return nil
}

type HabitArchiveCmd struct {
	Habit     string `arg:"" help:"Habit name or id."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habit, err := ctx.ResolveHabit(owner, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetArchived(owner, habit.ID, !c.Unarchive); err != nil {
		return err
	}
	if c.Unarchive {
		fmt.Printf("Unarchived habit: %s\n", habit.Name)
	} else {
		fmt.Printf("Archived habit: %s\n", habit.Name)
	}
	return nil
}

type HabitMoveCmd struct {
	Habit     string `arg:"" help:"Habit name or id."`
	Direction string `arg:"" enum:"up,down" help:"up or down."`
}

func (c *HabitMoveCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	habit, err := ctx.ResolveHabit(owner, c.Habit)
	if err != nil {
		return err
	}
	if habit.Archived {
		return fmt.Errorf("habit %q is archived", habit.Name)
	}
	active, err := ctx.Store.ListHabits(owner, false)
	if err != nil {
		return err
	}

	dir := progress.MoveUp
	if c.Direction == "down" {
		dir = progress.MoveDown
	}
	plan := progress.BuildReorderPlan(active, habit.ID, dir)
	if plan == nil {
		fmt.Printf("%s is already at the %s.\n", habit.Name, map[string]string{"up": "top", "down": "bottom"}[c.Direction])
		return nil
	}
	if err := ctx.Store.UpdateSortOrders(owner, plan.Updates); err != nil {
		return fmt.Errorf("%w: %v", ErrOrderNotSaved, err)
	}

	for _, h := range plan.Reordered {
		marker := "  "
		if h.ID == habit.ID {
			marker = "> "
		}
		fmt.Printf("%s%d. %s\n", marker, h.SortOrder+1, h.Name)
	}
	return nil
}
