package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding
	Help key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{dragToolbarHelp, dragResizerHelp},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

// Mouse gestures have no key; these bindings only feed the help view.
var (
	dragToolbarHelp = key.NewBinding(key.WithKeys("drag title"), key.WithHelp("drag title", "move window"))
	dragResizerHelp = key.NewBinding(key.WithKeys("drag ◢"), key.WithHelp("drag ◢", "resize window"))
)
