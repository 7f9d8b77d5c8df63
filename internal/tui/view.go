package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habhub/internal/analytics"
	"github.com/julianstephens/habhub/internal/constants"
)

func (m Model) View() string {
	if m.quit {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.habits.View())
	case StateStats:
		content = docStyle.Render(m.viewStats())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.viewTabs(), dateStyle.Render(m.today)),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return dangerStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewStats() string {
	if m.summary == nil {
		return "Loading…"
	}
	return renderSummary(*m.summary)
}

func renderSummary(s analytics.Summary) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + figureStyle.Render(value) + "\n")
	}
	row("Active habits", fmt.Sprint(s.ActiveHabits))
	row(fmt.Sprintf("Consistency %dd", constants.ConsistencyDays), fmt.Sprintf("%d%%", s.Consistency))
	row("Streak", fmt.Sprintf("%d days", s.Streak))

	b.WriteString("\n")
	for _, d := range s.Last7Days {
		row(d.DateKey, fmt.Sprintf("%3d%%  %d/%d", d.Rate, d.Done, d.Due))
	}

	b.WriteString("\n")
	perRow := (len(s.Heatmap) + 6) / 7
	for i, cell := range s.Heatmap {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\n")
		}
		b.WriteString(heatStyles[cell.Level].Render("■"))
	}
	return b.String()
}
