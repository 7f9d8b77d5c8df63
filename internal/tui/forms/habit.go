// Package forms holds the huh forms shared by the TUI and interactive
// commands.
package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/utils"
)

// HabitDraft is the form state for a new habit. Numeric fields are kept as
// text so the form can validate them in place.
type HabitDraft struct {
	Name        string
	Description string
	Frequency   string
	Days        string
	MonthDays   string
	Interval    string
	Target      string
	Date        string
	GoalCount   string
	URL         string
	AccentColor string
}

// NewHabitDraft returns a draft with the defaults a new habit starts from.
func NewHabitDraft() *HabitDraft {
	return &HabitDraft{
		Frequency:   string(constants.FrequencyDaily),
		Interval:    string(constants.IntervalWeek),
		Target:      strconv.Itoa(constants.DefaultFlexibleTarget),
		GoalCount:   strconv.Itoa(constants.DefaultGoalCount),
		AccentColor: constants.DefaultAccentColor,
	}
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// NewHabitForm builds the add-habit form bound to d. Schedule details are
// asked only for the frequency that needs them.
func NewHabitForm(d *HabitDraft) *huh.Form {
	hideUnless := func(f constants.Frequency) func() bool {
		return func() bool { return d.Frequency != string(f) }
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&d.Name).Validate(notEmpty),
			huh.NewInput().Title("Description").Value(&d.Description),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Every day", string(constants.FrequencyDaily)),
					huh.NewOption("Specific weekdays", string(constants.FrequencyWeeklySpecific)),
					huh.NewOption("Specific days of month", string(constants.FrequencyMonthlySpecific)),
					huh.NewOption("N times per week or month", string(constants.FrequencyFlexible)),
					huh.NewOption("Once", string(constants.FrequencyOnce)),
				).
				Value(&d.Frequency),
			huh.NewInput().Title("Daily goal count").Value(&d.GoalCount).Validate(positiveInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("Weekdays").Description("e.g. mon,wed,fri").Value(&d.Days).
				Validate(func(s string) error { _, err := cli.ParseWeekdays(s); return err }),
		).WithHideFunc(hideUnless(constants.FrequencyWeeklySpecific)),
		huh.NewGroup(
			huh.NewInput().Title("Days of month").Description("e.g. 1,15,last").Value(&d.MonthDays).
				Validate(func(s string) error { _, err := cli.ParseMonthDays(s); return err }),
		).WithHideFunc(hideUnless(constants.FrequencyMonthlySpecific)),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Interval").
				Options(
					huh.NewOption("Week", string(constants.IntervalWeek)),
					huh.NewOption("Month", string(constants.IntervalMonth)),
				).
				Value(&d.Interval),
			huh.NewInput().Title("Target per interval").Value(&d.Target).Validate(positiveInt),
		).WithHideFunc(hideUnless(constants.FrequencyFlexible)),
		huh.NewGroup(
			huh.NewInput().Title("Date").Description("YYYY-MM-DD").Value(&d.Date).
				Validate(func(s string) error {
					if !utils.ValidDateKey(strings.TrimSpace(s)) {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
		).WithHideFunc(hideUnless(constants.FrequencyOnce)),
		huh.NewGroup(
			huh.NewInput().Title("Link").Description("optional URL").Value(&d.URL),
			huh.NewInput().Title("Accent color").Value(&d.AccentColor),
		),
	)
}

// Habit converts the draft into a habit without id, owner or order.
func (d *HabitDraft) Habit() (models.Habit, error) {
	goal, err := strconv.Atoi(strings.TrimSpace(d.GoalCount))
	if err != nil {
		return models.Habit{}, fmt.Errorf("invalid goal count %q", d.GoalCount)
	}
	target := 0
	if d.Frequency == string(constants.FrequencyFlexible) {
		if target, err = strconv.Atoi(strings.TrimSpace(d.Target)); err != nil {
			return models.Habit{}, fmt.Errorf("invalid target %q", d.Target)
		}
	}

	flags := cli.ScheduleFlags{
		Frequency: d.Frequency,
		Days:      d.Days,
		MonthDays: d.MonthDays,
		Interval:  d.Interval,
		Target:    target,
		Date:      strings.TrimSpace(d.Date),
	}
	schedule, err := flags.Build()
	if err != nil {
		return models.Habit{}, err
	}

	return models.Habit{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Schedule:    schedule,
		GoalCount:   goal,
		ExternalURL: strings.TrimSpace(d.URL),
		AccentColor: strings.TrimSpace(d.AccentColor),
	}, nil
}
