package browse

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// listKeys holds key bindings for list mode.
type listKeys struct {
	Up        key.Binding
	Down      key.Binding
	Filter    key.Binding
	SortName  key.Binding
	SortPhone key.Binding
	SortEmail key.Binding
	Delete    key.Binding
	Reset     key.Binding
	Reload    key.Binding
	Tab       key.Binding
	Quit      key.Binding
}

// ShortHelp returns the list mode bindings for the help bar.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.SortName, k.Delete, k.Quit}
}

// FullHelp returns the list mode bindings grouped for expanded help.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.SortName, k.SortPhone, k.SortEmail},
		{k.Delete, k.Reset, k.Reload},
		{k.Tab, k.Quit},
	}
}

// filterKeys holds key bindings while the filter prompt is active.
type filterKeys struct {
	Accept key.Binding
	Cancel key.Binding
}

// ShortHelp returns the filter bindings for the help bar.
func (k filterKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Cancel}
}

// FullHelp returns the filter bindings grouped for expanded help.
func (k filterKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Accept, k.Cancel}}
}

// confirmKeys holds key bindings for the confirm screens.
type confirmKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns the confirm bindings for the help bar.
func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns the confirm bindings grouped for expanded help.
func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// ListKeyMap returns the key bindings for list mode.
func ListKeyMap() listKeys {
	return listKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		SortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort by name"),
		),
		SortPhone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "sort by phone"),
		),
		SortEmail: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "sort by email"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reset: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "reset all"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FilterKeyMap returns the key bindings for the filter prompt.
func FilterKeyMap() filterKeys {
	return filterKeys{
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
	}
}

// ConfirmKeyMap returns the key bindings for the confirm screens.
func ConfirmKeyMap() confirmKeys {
	return confirmKeys{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// HelpBindings returns the help.KeyMap for the given mode,
// providing context-aware help bar content.
func HelpBindings(mode Mode, filtering bool) help.KeyMap {
	switch {
	case mode == ModeConfirmDelete || mode == ModeConfirmReset:
		return ConfirmKeyMap()
	case filtering:
		return FilterKeyMap()
	default:
		return ListKeyMap()
	}
}
