package ui

import "charm.land/bubbles/v2/key"

// KeyMap defines the host keybindings that are not dialog navigation.
type KeyMap struct {
	Interrupt key.Binding
	Toggle    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "select"),
		),
	}
}
