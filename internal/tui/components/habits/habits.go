package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/progress"
)

type AddHabitMsg struct{}

type RetryMsg struct{}

type BumpMsg struct {
	Habit models.Habit
	Delta int
}

type ToggleMsg struct {
	Habit models.Habit
}

type MoveMsg struct {
	Habit models.Habit
	Dir   progress.Direction
}

// Item is one due habit with its state for the day.
type Item struct {
	Habit models.Habit
	Entry *models.Entry
	// Period is the flexible bucket label, empty for other schedules.
	Period  string
	Pending bool
}

func (i Item) Done() bool {
	return progress.IsDone(i.Entry, i.Habit)
}

func (i Item) Title() string {
	if i.Done() {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d/%d today", progress.CurrentCount(i.Entry), i.Habit.GoalCount)
	if i.Period != "" {
		desc += " · " + i.Period
	}
	if i.Pending {
		desc += " · saving…"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add       key.Binding
	Increment key.Binding
	Decrement key.Binding
	Toggle    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Retry     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "count up"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "count down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle done"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Add, k.Increment, k.Decrement, k.Toggle, k.MoveUp, k.MoveDown, k.Retry}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("habit", "habits")

	return Model{list: l, keys: DefaultKeyMap()}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Items returns the items currently listed.
func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item))
	}
	return out
}

// Select moves the cursor to the habit with id, if listed.
func (m *Model) Select(id string) {
	for i, it := range m.list.Items() {
		if it.(Item).Habit.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, emit(AddHabitMsg{})
		case key.Matches(msg, m.keys.Retry):
			return m, emit(RetryMsg{})
		}

		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Increment):
				return m, emit(BumpMsg{Habit: i.Habit, Delta: 1})
			case key.Matches(msg, m.keys.Decrement):
				return m, emit(BumpMsg{Habit: i.Habit, Delta: -1})
			case key.Matches(msg, m.keys.Toggle):
				return m, emit(ToggleMsg{Habit: i.Habit})
			case key.Matches(msg, m.keys.MoveUp):
				return m, emit(MoveMsg{Habit: i.Habit, Dir: progress.MoveUp})
			case key.Matches(msg, m.keys.MoveDown):
				return m, emit(MoveMsg{Habit: i.Habit, Dir: progress.MoveDown})
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "Nothing due today. Press a to add a habit."
	}
	return m.list.View()
}
