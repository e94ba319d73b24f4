package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Start key.Binding
	Done  key.Binding
	Skip  key.Binding
	Undo  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Now   key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Done: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d/enter", "done"),
		),
		Skip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "skip"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "j", "down"),
			key.WithHelp("→/j", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "k", "up"),
			key.WithHelp("←/k", "previous"),
		),
		Now: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "back to current"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Done, k.Skip, k.Next, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Done, k.Skip, k.Undo},
		{k.Next, k.Prev, k.Now},
		{k.Help, k.Quit},
	}
}
