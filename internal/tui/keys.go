package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for every phase. Bindings that do not apply to
// the current phase are disabled so they neither match nor show in help.
type keyMap struct {
	Deal       key.Binding
	Hit        key.Binding
	Stand      key.Binding
	NewRound   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Deal: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "deal"),
		),
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		NewRound: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "new round"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Deal, k.Hit, k.Stand, k.NewRound, k.ScrollUp, k.ScrollDown, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Deal, k.Hit, k.Stand, k.NewRound},
		{k.ScrollUp, k.ScrollDown, k.Quit},
	}
}
