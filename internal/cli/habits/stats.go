package habits

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habhub/internal/analytics"
	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/utils"
)

const barWidth = 20

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	figureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// heat levels 0-4
	heatStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	settings, err := ctx.Settings(owner)
	if err != nil {
		return err
	}
	habits, err := ctx.Store.ListHabits(owner, false)
	if err != nil {
		return err
	}
	today := ctx.TodayKey()
	entries, err := ctx.Store.ListEntries(owner, "", today)
	if err != nil {
		return err
	}

	summary := analytics.Summarize(habits, entries, settings, today)
	renderStats(os.Stdout, summary)
	return nil
}

func renderStats(w io.Writer, s analytics.Summary) {
	fmt.Fprintln(w, headingStyle.Render("Overview"))
	fmt.Fprintf(w, "  Active habits:      %s\n", figureStyle.Render(fmt.Sprint(s.ActiveHabits)))
	fmt.Fprintf(w, "  Consistency (%dd):  %s\n", constants.ConsistencyDays, figureStyle.Render(fmt.Sprintf("%d%%", s.Consistency)))
	fmt.Fprintf(w, "  Current streak:     %s\n", figureStyle.Render(fmt.Sprintf("%d days", s.Streak)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Last 7 days"))
	for _, d := range s.Last7Days {
		fmt.Fprintf(w, "  %s %s  %3d%%\n", weekdayLabel(d.DateKey), renderBar(d.Rate), d.Rate)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Activity"))
	fmt.Fprint(w, renderHeatmap(s.Heatmap))
	fmt.Fprintln(w, mutedStyle.Render("  less ")+legend()+mutedStyle.Render(" more"))
}

func weekdayLabel(day string) string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}[utils.Weekday(day)]
}

func renderBar(rate int) string {
	filled := rate * barWidth / 100
	return barStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func legend() string {
	var b strings.Builder
	for _, st := range heatStyles {
		b.WriteString(st.Render("■"))
	}
	return b.String()
}

// renderHeatmap lays the cells out as columns of weeks, one row per
// weekday, oldest week on the left.
func renderHeatmap(cells []analytics.HeatCell) string {
	if len(cells) == 0 {
		return ""
	}
	lead := utils.Weekday(cells[0].DateKey)
	rows := make([]strings.Builder, 7)
	for r := 0; r < lead; r++ {
		rows[r].WriteString(" ")
	}
	for i, cell := range cells {
		r := (lead + i) % 7
		rows[r].WriteString(heatStyles[cell.Level].Render("■"))
	}

	var b strings.Builder
	for r := range rows {
		b.WriteString("  ")
		b.WriteString(rows[r].String())
		b.WriteString("\n")
	}
	return b.String()
}
