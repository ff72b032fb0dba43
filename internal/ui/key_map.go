package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	favorite key.Binding
	filter   key.Binding
	director key.Binding
	genre    key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		filter:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "favorites only")),
		director: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "director")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.favorite, k.filter},
		{k.director, k.genre},
		{k.back, k.quit},
	}
}
