// ABOUTME: Key bindings for the mood tracker and history screens.
// ABOUTME: Feeds the bubbles help footer with short and full binding lists.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Pick   key.Binding
	Select key.Binding
	Delete key.Binding
	Tab    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "swipe left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "swipe right"),
		),
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "record mood"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "record"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "backspace"),
			key.WithHelp("d", "delete"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// trackerKeys and historyKeys adapt the map to help.KeyMap per screen.
type trackerKeys struct{ keyMap }

func (k trackerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Select, k.Tab, k.Quit}
}

func (k trackerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Pick}, {k.Tab, k.Help, k.Quit}}
}

type historyKeys struct{ keyMap }

func (k historyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Delete, k.Tab, k.Quit}
}

func (k historyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Delete, k.Tab, k.Help, k.Quit}}
}
