package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habhub/internal/analytics"
	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/entrywrite"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/recurrence"
	"github.com/julianstephens/habhub/internal/tui/components/habits"
	"github.com/julianstephens/habhub/internal/tui/forms"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateStats
	StateAddHabit
)

var tabTitles = []string{"Today", "Stats"}

type Model struct {
	ctx      *cli.Context
	owner    string
	today    string
	state    SessionState
	keys     keyMap
	help     help.Model
	habits   habits.Model
	data     cli.DayData
	recorder *entrywrite.Recorder
	// pending holds habit ids with a write in flight
	pending map[string]bool
	summary *analytics.Summary
	form    *huh.Form
	draft   *forms.HabitDraft
	status  string
	failed  bool
	quit    bool
	width   int
	height  int
}

func NewModel(ctx *cli.Context, owner string) (Model, error) {
	today := ctx.TodayKey()
	data, err := ctx.LoadDay(owner, today)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:      ctx,
		owner:    owner,
		today:    today,
		state:    StateToday,
		keys:     newKeyMap(),
		help:     help.New(),
		habits:   habits.New(nil, 0, 0),
		data:     data,
		recorder: ctx.Recorder(data.Entries),
		pending:  make(map[string]bool),
	}
	m.refreshItems()
	return m, nil
}

// refreshItems rebuilds the due list from the recorder's cache, which
// already holds counts whose writes are still in flight.
func (m *Model) refreshItems() {
	entries := m.recorder.Cache().Entries()
	due := recurrence.DueHabits(m.data.Habits, m.today, entries, m.data.Settings)

	items := make([]habits.Item, len(due))
	for i, h := range due {
		item := habits.Item{Habit: h, Pending: m.pending[h.ID]}
		if e, ok := models.FindEntry(entries, h.ID, m.today); ok {
			item.Entry = &e
		}
		item.Period, _ = cli.PeriodLabel(h, entries, m.today, m.data.Settings)
		items[i] = item
	}
	m.habits.SetItems(items)
}

func (m *Model) setStatus(msg string, failed bool) {
	m.status = msg
	m.failed = failed
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.NextTab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		hk := m.habits.Keys()
		keys = append(keys, hk.Toggle, hk.Increment, hk.Decrement)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.NextTab, m.keys.PrevTab, m.keys.TodayTab, m.keys.StatsTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	if m.state != StateToday {
		return [][]key.Binding{global, navigation}
	}
	return [][]key.Binding{global, navigation, m.habits.Keys().Bindings()}
}

func (m Model) Init() tea.Cmd {
	return m.habits.Init()
}
