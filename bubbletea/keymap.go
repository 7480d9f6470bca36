package bubbletea

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the block browser.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding
	NextBlock    key.Binding
	PrevBlock    key.Binding
	NextCode     key.Binding
	PrevCode     key.Binding
	Copy         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		NextBlock: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next block"),
		),
		PrevBlock: key.NewBinding(
			key.WithKeys("N", "["),
			key.WithHelp("N", "previous block"),
		),
		NextCode: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "next code block"),
		),
		PrevCode: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "previous code block"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy block"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
