package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Close  key.Binding
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Reopen key.Binding
	Pop    key.Binding
	Clear  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close list / quit")),
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Pick:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add name")),
		Reopen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "reopen list")),
		Pop:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "remove last name")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear selection")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Pick, k.Up, k.Down, k.Reopen, k.Pop, k.Clear, k.Close}
}
