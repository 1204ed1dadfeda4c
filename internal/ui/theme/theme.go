// Package theme defines the colors and styles of the dialog host.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
)

// Theme defines all colors used throughout the UI.
type Theme struct {
	// Base colors
	Primary compat.CompleteAdaptiveColor

	// Text colors
	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	// Background colors
	Bg       compat.AdaptiveColor
	ButtonBg compat.AdaptiveColor

	// Border colors
	Border      compat.AdaptiveColor
	BorderFocus compat.CompleteAdaptiveColor

	// Accent colors
	SelectedFg compat.AdaptiveColor
	SelectedBg compat.AdaptiveColor
	Success    compat.AdaptiveColor
	Error      compat.AdaptiveColor
}

// DefaultTheme is the adaptive color scheme used by default.
// Use Open Color palette when possible to define colors: https://yeun.github.io/open-color/
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1971C2"), ANSI256: lipgloss.Color("26"), ANSI: lipgloss.Color("4")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#74C0FC"), ANSI256: lipgloss.Color("117"), ANSI: lipgloss.Color("12")},
	},

	// Text
	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	// Backgrounds
	Bg: compat.AdaptiveColor{
		Light: lipgloss.Color("15"),
		Dark:  lipgloss.Color("0"),
	},
	ButtonBg: compat.AdaptiveColor{
		Light: lipgloss.Color("#E9ECEF"), // Gray-2
		Dark:  lipgloss.Color("#343A40"), // Gray-8
	},

	// Borders
	Border: compat.AdaptiveColor{
		Light: lipgloss.Color("#D1D5DB"), // Gray-300
		Dark:  lipgloss.Color("#374151"), // Gray-700
	},
	BorderFocus: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1971C2"), ANSI256: lipgloss.Color("26"), ANSI: lipgloss.Color("4")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#74C0FC"), ANSI256: lipgloss.Color("117"), ANSI: lipgloss.Color("12")},
	},

	// Accents
	SelectedFg: compat.AdaptiveColor{
		Light: lipgloss.Color("229"),
		Dark:  lipgloss.Color("229"),
	},
	SelectedBg: compat.AdaptiveColor{
		Light: lipgloss.Color("57"),
		Dark:  lipgloss.Color("57"),
	},
	Success: compat.AdaptiveColor{
		Light: lipgloss.Color("#16A34A"),
		Dark:  lipgloss.Color("#22C55E"),
	},
	Error: compat.AdaptiveColor{
		Light: lipgloss.Color("#E03131"),
		Dark:  lipgloss.Color("#FF6B6B"),
	},
}

// Styles holds all lipgloss styles derived from a theme
type Styles struct {
	// Backdrop
	Backdrop  lipgloss.Style
	BackTitle lipgloss.Style

	// Dialog frame
	DialogTitle       lipgloss.Style
	DialogBorder      lipgloss.Style
	DialogBorderFocus lipgloss.Style
	DialogText        lipgloss.Style
	DialogMuted       lipgloss.Style
	CloseMark         lipgloss.Style
	CloseMarkFocus    lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	// Inputs
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Selection    lipgloss.Style
	Radio        lipgloss.Style
	RadioChecked lipgloss.Style
	RadioFocused lipgloss.Style

	// Progress
	Counter lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	return Styles{
		Backdrop: lipgloss.NewStyle(),

		BackTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		DialogTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		DialogBorder: lipgloss.NewStyle().
			Foreground(t.Border),

		DialogBorderFocus: lipgloss.NewStyle().
			Foreground(t.BorderFocus),

		DialogText: lipgloss.NewStyle().
			Foreground(t.Text),

		DialogMuted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		CloseMark: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		CloseMarkFocus: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.ButtonBg).
			Padding(0, 1),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.SelectedFg).
			Background(t.SelectedBg).
			Bold(true).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Foreground(t.Text),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Text).
			Underline(true),

		Selection: lipgloss.NewStyle().
			Foreground(t.SelectedFg).
			Background(t.SelectedBg),

		Radio: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		RadioChecked: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		RadioFocused: lipgloss.NewStyle().
			Foreground(t.SelectedFg).
			Background(t.SelectedBg),

		Counter: lipgloss.NewStyle().
			Foreground(t.TextMuted),
	}
}
