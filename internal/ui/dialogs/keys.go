package dialogs

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/kpumuk/smalltalk/internal/dialog"
)

// KeyMap defines the keys the dialog engine interprets.
type KeyMap struct {
	Confirm  key.Binding
	Close    key.Binding
	Next     key.Binding
	Previous key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
}

// DefaultKeyMap returns the default dialog key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "alt+esc"),
			key.WithHelp("esc", "cancel"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous"),
		),
		Left:  key.NewBinding(key.WithKeys("left")),
		Right: key.NewBinding(key.WithKeys("right")),
		Up:    key.NewBinding(key.WithKeys("up")),
		Down:  key.NewBinding(key.WithKeys("down")),
	}
}

// KeyBindings returns dialog key bindings.
func (k KeyMap) KeyBindings() []key.Binding {
	return []key.Binding{
		k.Confirm,
		k.Close,
		k.Next,
		k.Previous,
	}
}

// Translate maps a key press to a dialog key and its shift state.
func (k KeyMap) Translate(msg tea.KeyPressMsg) (dialog.Key, bool) {
	switch {
	case key.Matches(msg, k.Confirm):
		return dialog.KeyEnter, false
	case key.Matches(msg, k.Close):
		return dialog.KeyEscape, false
	case key.Matches(msg, k.Next):
		return dialog.KeyTab, false
	case key.Matches(msg, k.Previous):
		return dialog.KeyTab, true
	case key.Matches(msg, k.Left):
		return dialog.KeyLeft, false
	case key.Matches(msg, k.Right):
		return dialog.KeyRight, false
	case key.Matches(msg, k.Up):
		return dialog.KeyUp, false
	case key.Matches(msg, k.Down):
		return dialog.KeyDown, false
	}
	return dialog.KeyOther, false
}
