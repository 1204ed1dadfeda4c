// Package ui hosts dialogs of a document in a Bubble Tea program.
package ui

import (
	"image/color"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/logging"
	"github.com/kpumuk/smalltalk/internal/ui/dialogs"
	"github.com/kpumuk/smalltalk/internal/ui/dialogs/modal"
	"github.com/kpumuk/smalltalk/internal/ui/theme"
)

// ProgressMsg moves a progress dialog to Percent.
type ProgressMsg struct {
	Handle  *dialog.ProgressHandle
	Percent int
}

// RemoveMsg removes a dialog without settling it.
type RemoveMsg struct {
	Handle *dialog.Handle
}

// App is the dialog host model.
type App struct {
	keys       KeyMap
	dialogKeys dialogs.KeyMap
	doc        *dialog.Document
	dialogs    *dialogs.DialogCmp
	styles     theme.Styles
	backTitle  string
	width      int
	height     int
	ready      bool
}

// Option configures the App.
type Option func(*App)

// WithBackTitle sets the text drawn in the top-left corner of the backdrop.
func WithBackTitle(title string) Option {
	return func(a *App) {
		a.backTitle = strings.TrimSpace(title)
	}
}

// WithStyles sets the styles.
func WithStyles(s theme.Styles) Option {
	return func(a *App) {
		a.styles = s
	}
}

// New creates a host for the dialogs mounted on doc.
func New(doc *dialog.Document, opts ...Option) App {
	a := App{
		keys:       DefaultKeyMap(),
		dialogKeys: dialogs.DefaultKeyMap(),
		doc:        doc,
		styles:     theme.NewStyles(),
	}

	for _, opt := range opts {
		opt(&a)
	}

	a.dialogs = dialogs.NewDialogCmp(doc, modal.WithStyles(modalStyles(a.styles)))

	return a
}

func modalStyles(s theme.Styles) modal.Styles {
	t := theme.DefaultTheme
	return modal.Styles{
		Title:          s.DialogTitle,
		Border:         s.DialogBorder,
		BorderFocus:    s.DialogBorderFocus,
		Text:           s.DialogText,
		Mark:           s.CloseMark,
		MarkFocus:      s.CloseMarkFocus,
		Button:         s.Button,
		ButtonFocused:  s.ButtonFocused,
		Input:          s.Input,
		InputFocused:   s.InputFocused,
		Selection:      s.Selection,
		Radio:          s.Radio,
		RadioChecked:   s.RadioChecked,
		RadioFocused:   s.RadioFocused,
		Counter:        s.Counter,
		ProgressColors: []color.Color{t.Primary, t.Success},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if len(a.doc.Dialogs()) == 0 {
		return tea.Quit
	}
	return a.dialogs.Sync()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.dialogs.SetSize(msg.Width, msg.Height)

	case tea.KeyPressMsg:
		cmds = append(cmds, a.handleKey(msg))

	case tea.InterruptMsg:
		a.dismissTop()

	case tea.PasteMsg:
		if active := a.doc.ActiveElement(); active != nil {
			if view := a.dialogs.ModelFor(active); view != nil {
				cmds = append(cmds, view.Edit(msg, active))
			}
		}

	case tea.MouseClickMsg:
		a.handleClick(msg.Mouse())

	case ProgressMsg:
		if msg.Handle != nil {
			msg.Handle.SetProgress(msg.Percent)
		}

	case RemoveMsg:
		if msg.Handle != nil {
			msg.Handle.Remove()
		}

	default:
		if view := a.dialogs.ActiveModel(); view != nil {
			cmds = append(cmds, view.Update(msg))
		}
	}

	cmds = append(cmds, a.dialogs.Sync())
	if !a.dialogs.HasDialogs() {
		logging.Debug("no dialogs left, quitting")
		return a, tea.Quit
	}

	return a, tea.Batch(cmds...)
}

// target returns the element key presses are dispatched to: the focused
// element when it belongs to a dialog, otherwise the topmost dialog root.
func (a App) target() *dialog.Element {
	if active := a.doc.ActiveElement(); active != nil {
		for _, root := range a.doc.Dialogs() {
			if root.Contains(active) {
				return active
			}
		}
	}
	return a.doc.Top()
}

func (a App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Interrupt) {
		a.dismissTop()
		return nil
	}

	target := a.target()
	if target == nil {
		return nil
	}

	k, shift := a.dialogKeys.Translate(msg)
	ev := dialog.Dispatch(&dialog.Event{Type: dialog.EventKeyDown, Key: k, Shift: shift, Target: target})
	if ev.DefaultPrevented() || k == dialog.KeyEscape {
		return nil
	}
	return a.defaultAction(msg, k)
}

// dismissTop delivers Escape to the topmost dialog.
func (a App) dismissTop() {
	if top := a.doc.Top(); top != nil {
		logging.Debug("interrupt, dismissing topmost dialog", zap.Int("level", top.Level))
		dialog.Dispatch(&dialog.Event{Type: dialog.EventKeyDown, Key: dialog.KeyEscape, Target: top})
	}
}

// defaultAction applies a key the dialog left alone to the focused control.
func (a App) defaultAction(msg tea.KeyPressMsg, k dialog.Key) tea.Cmd {
	active := a.doc.ActiveElement()
	if active == nil {
		return nil
	}
	view := a.dialogs.ModelFor(active)
	if view == nil {
		return nil
	}

	switch active.Kind {
	case dialog.KindInput:
		return view.Edit(msg, active)
	case dialog.KindRadio:
		switch {
		case k == dialog.KeyLeft || k == dialog.KeyUp:
			a.doc.Focus(modal.MoveChoice(active, -1))
		case k == dialog.KeyRight || k == dialog.KeyDown:
			a.doc.Focus(modal.MoveChoice(active, 1))
		case key.Matches(msg, a.keys.Toggle):
			active.Check()
		}
	case dialog.KindButton:
		if key.Matches(msg, a.keys.Toggle) {
			dialog.Dispatch(&dialog.Event{Type: dialog.EventClick, Target: active})
		}
	}
	return nil
}

func (a App) handleClick(mouse tea.Mouse) {
	if !a.ready {
		return
	}
	canvas := a.canvas()
	target := a.dialogs.Lookup(canvas.Hit(mouse.X, mouse.Y))
	if target == nil {
		target = a.doc.Body()
	}

	switch mouse.Button {
	case tea.MouseLeft:
		if target.Kind == dialog.KindRadio {
			target.Check()
		}
		dialog.Dispatch(&dialog.Event{Type: dialog.EventClick, Target: target})
	case tea.MouseRight:
		dialog.Dispatch(&dialog.Event{Type: dialog.EventContextMenu, Target: target})
	}
}

func (a App) canvas() *lipgloss.Canvas {
	backdrop := lipgloss.NewLayer(a.renderBackdrop()).Z(0)
	layers := append([]*lipgloss.Layer{backdrop}, a.dialogs.GetLayers()...)
	return lipgloss.NewCanvas(layers...)
}

func (a App) renderBackdrop() string {
	lines := make([]string, a.height)
	blank := strings.Repeat(" ", a.width)
	for i := range lines {
		lines[i] = blank
	}
	if a.backTitle != "" && a.height > 0 {
		title := a.styles.BackTitle.Render(ansi.Truncate(a.backTitle, max(a.width-2, 0), "…"))
		if w := lipgloss.Width(title); w < a.width {
			title += strings.Repeat(" ", a.width-w)
		}
		lines[0] = title
	}
	return a.styles.Backdrop.Render(strings.Join(lines, "\n"))
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if !a.ready {
		v.SetContent("Initializing...")
		return v
	}

	v.SetContent(a.canvas())
	return v
}
