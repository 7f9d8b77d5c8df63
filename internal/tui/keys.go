package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings that work on every tab. Habit list bindings
// live with the list component.
type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	TodayTab key.Binding
	StatsTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "switch back")),
		TodayTab: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "today")),
		StatsTab: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "stats")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous habit")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next habit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
