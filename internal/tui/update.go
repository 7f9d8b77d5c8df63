package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habhub/internal/analytics"
	"github.com/julianstephens/habhub/internal/entrywrite"
	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
	"github.com/julianstephens/habhub/internal/tui/components/habits"
	"github.com/julianstephens/habhub/internal/tui/forms"
)

type entryWrittenMsg struct {
	habit models.Habit
	entry models.Entry
	err   error
}

type reorderedMsg struct {
	// previous is restored when the new order could not be saved
	previous []models.Habit
	err      error
}

type habitCreatedMsg struct {
	habit models.Habit
	err   error
}

type summaryMsg struct {
	summary analytics.Summary
	err     error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAddHabit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case tea.KeyMsg:
		if m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
			if m.state == StateToday {
				return m.showStats()
			}
			m.state = StateToday
			return m, nil
		case key.Matches(msg, m.keys.TodayTab):
			m.state = StateToday
			return m, nil
		case key.Matches(msg, m.keys.StatsTab):
			return m.showStats()
		}
		if m.state == StateStats {
			return m, nil
		}

	case habits.BumpMsg:
		return m.startWrite(msg.Habit, func(ctx context.Context) (*entrywrite.Pending, error) {
			return m.recorder.BeginBump(ctx, msg.Habit, m.today, msg.Delta)
		})

	case habits.ToggleMsg:
		return m.startWrite(msg.Habit, func(ctx context.Context) (*entrywrite.Pending, error) {
			return m.recorder.BeginToggle(ctx, msg.Habit, m.today)
		})

	case habits.RetryMsg:
		f, ok := m.recorder.LastFailure()
		if !ok {
			m.setStatus("Nothing to retry.", false)
			return m, nil
		}
		return m.startWrite(f.Habit, m.recorder.BeginRetry)

	case entryWrittenMsg:
		delete(m.pending, msg.habit.ID)
		if msg.err != nil {
			return m.writeFailed(msg.habit, msg.err)
		}
		m.setStatus("", false)
		m.refreshItems()
		return m, nil

	case habits.MoveMsg:
		return m.startMove(msg.Habit, msg.Dir)

	case reorderedMsg:
		if msg.err != nil {
			m.data.Habits = msg.previous
			m.refreshItems()
			m.setStatus(fmt.Sprintf("Order not saved: %v", msg.err), true)
		}
		return m, nil

	case habits.AddHabitMsg:
		m.draft = forms.NewHabitDraft()
		m.form = forms.NewHabitForm(m.draft)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitCreatedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.data.Habits = append(m.data.Habits, msg.habit)
		m.summary = nil
		m.refreshItems()
		m.habits.Select(msg.habit.ID)
		m.setStatus(fmt.Sprintf("Added %s", msg.habit.Name), false)
		return m, nil

	case summaryMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not load stats: %v", msg.err), true)
			return m, nil
		}
		m.summary = &msg.summary
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

// startWrite applies the new count to the cache inside Update, so the list
// shows it at once, and persists it off the update loop.
func (m Model) startWrite(habit models.Habit, begin func(context.Context) (*entrywrite.Pending, error)) (tea.Model, tea.Cmd) {
	if m.pending[habit.ID] {
		m.setStatus(fmt.Sprintf("Still saving %s…", habit.Name), false)
		return m, nil
	}
	write, err := begin(context.Background())
	if err != nil {
		return m.writeFailed(habit, err)
	}
	m.pending[habit.ID] = true
	m.summary = nil
	m.refreshItems()
	return m, func() tea.Msg {
		entry, err := write.Commit(context.Background())
		return entryWrittenMsg{habit: habit, entry: entry, err: err}
	}
}

func (m Model) writeFailed(habit models.Habit, err error) (tea.Model, tea.Cmd) {
	m.refreshItems()
	if errors.Is(err, entrywrite.ErrWriteInFlight) {
		m.setStatus(fmt.Sprintf("Still saving %s…", habit.Name), false)
		return m, nil
	}
	logger.Warn("Entry write failed", "habit", habit.ID, "day", m.today, "error", err)
	m.setStatus(fmt.Sprintf("Could not save %s: %v (r to retry)", habit.Name, err), true)
	return m, nil
}

// startMove applies a reorder to the list at once and persists it in the
// background. The previous order is restored if the save fails.
func (m Model) startMove(habit models.Habit, dir progress.Direction) (tea.Model, tea.Cmd) {
	plan := progress.BuildReorderPlan(m.data.Habits, habit.ID, dir)
	if plan == nil {
		return m, nil
	}
	previous := slices.Clone(m.data.Habits)
	m.data.Habits = plan.Reordered
	m.refreshItems()
	m.habits.Select(habit.ID)

	store, owner := m.ctx.Store, m.owner
	return m, func() tea.Msg {
		return reorderedMsg{previous: previous, err: store.UpdateSortOrders(owner, plan.Updates)}
	}
}

func (m Model) showStats() (tea.Model, tea.Cmd) {
	m.state = StateStats
	return m, m.loadSummary()
}

func (m Model) loadSummary() tea.Cmd {
	if m.summary != nil {
		return nil
	}
	store, owner, today := m.ctx.Store, m.owner, m.today
	habitList, settings := slices.Clone(m.data.Habits), m.data.Settings
	return func() tea.Msg {
		entries, err := store.ListEntries(owner, "", today)
		if err != nil {
			return summaryMsg{err: err}
		}
		return summaryMsg{summary: analytics.Summarize(habitList, entries, settings, today)}
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.state = StateToday
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = StateToday
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		m.state = StateToday
		m.form = nil
		habit, err := m.draft.Habit()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		ctx, owner := m.ctx, m.owner
		return m, func() tea.Msg {
			created, err := ctx.CreateHabit(owner, habit)
			return habitCreatedMsg{habit: created, err: err}
		}
	}
	return m, cmd
}
