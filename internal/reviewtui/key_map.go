package reviewtui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key.Binding mapping for the review list.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	confirm key.Binding
	reject  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		confirm: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.confirm, k.reject, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.confirm, k.reject, k.quit},
	}
}
