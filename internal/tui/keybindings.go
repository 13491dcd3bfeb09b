package tui

import "github.com/charmbracelet/bubbles/key"

// KeyBindings defines the editor's global shortcuts. Everything else goes
// to the active buffer.
type KeyBindings struct {
	Quit       key.Binding
	NextBuffer key.Binding
	PrevBuffer key.Binding
	NewBuffer  key.Binding
	CloseBuf   key.Binding
	Help       key.Binding
}

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		NextBuffer: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next buffer"),
		),
		PrevBuffer: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev buffer"),
		),
		NewBuffer: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "new buffer"),
		),
		CloseBuf: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close buffer"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "more keys"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyBindings) ShortHelp() []key.Binding {
	return []key.Binding{k.NextBuffer, k.NewBuffer, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyBindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextBuffer, k.PrevBuffer},
		{k.NewBuffer, k.CloseBuf},
		{k.Help, k.Quit},
	}
}
