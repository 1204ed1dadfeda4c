// Package modal renders one mounted dialog as a bordered box and maps screen
// cells back to the controls it shows.
package modal

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/mathutil"
	"github.com/kpumuk/smalltalk/internal/ui/components/frame"
)

const (
	closeMark    = "×"
	buttonGap    = "  "
	radioGap     = " "
	counterWidth = 4
)

// Styles holds the styles used by the modal.
type Styles struct {
	Title          lipgloss.Style
	Border         lipgloss.Style
	BorderFocus    lipgloss.Style
	Text           lipgloss.Style
	Mark           lipgloss.Style
	MarkFocus      lipgloss.Style
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	Input          lipgloss.Style
	InputFocused   lipgloss.Style
	Selection      lipgloss.Style
	Radio          lipgloss.Style
	RadioChecked   lipgloss.Style
	RadioFocused   lipgloss.Style
	Counter        lipgloss.Style
	ProgressColors []color.Color
}

// DefaultStyles returns zero-value styles.
func DefaultStyles() Styles {
	return Styles{}
}

// Model renders a dialog root.
type Model struct {
	root         *dialog.Element
	styles       Styles
	input        textinput.Model
	bar          progress.Model
	active       *dialog.Element
	top          bool
	width        int
	height       int
	windowWidth  int
	windowHeight int
	offset       int
	row          int
	col          int
	padding      int
	minWidth     int
	hits         map[string]*dialog.Element
}

// Option configures the modal.
type Option func(*Model)

// New creates a modal for root.
func New(root *dialog.Element, opts ...Option) *Model {
	m := &Model{
		root:     root,
		styles:   DefaultStyles(),
		input:    textinput.New(),
		padding:  1,
		minWidth: 40,
	}

	m.input.Prompt = ""
	if el := m.inputElement(); el != nil && el.Type == dialog.TypePassword {
		m.input.EchoMode = textinput.EchoPassword
	}

	for _, opt := range opts {
		opt(m)
	}

	m.bar = progress.New(progress.WithoutPercentage(), progress.WithColors(m.styles.ProgressColors...))

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithMinWidth sets the minimum dialog width.
func WithMinWidth(width int) Option {
	return func(m *Model) {
		m.minWidth = width
	}
}

// Root returns the dialog root the modal renders.
func (m *Model) Root() *dialog.Element {
	return m.root
}

// ID returns the hit identifier of the dialog root.
func (m *Model) ID() string {
	return strconv.Itoa(m.root.Level)
}

// SetWindowSize sets the terminal size the modal is centered in.
func (m *Model) SetWindowSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
}

// SetOffset shifts the modal down and right by n cells from the center.
func (m *Model) SetOffset(n int) {
	m.offset = max(n, 0)
}

// SetFocus records the focused element of the document and whether this
// modal is the topmost one.
func (m *Model) SetFocus(active *dialog.Element, top bool) tea.Cmd {
	m.active = active
	m.top = top
	el := m.inputElement()
	if el != nil && top && active == el {
		m.syncInput(el)
		if !m.input.Focused() {
			return m.input.Focus()
		}
		return nil
	}
	m.input.Blur()
	return nil
}

// Position returns the modal position.
func (m *Model) Position() (int, int) {
	m.applySize()
	return m.row, m.col
}

// Size returns the modal size.
func (m *Model) Size() (int, int) {
	m.applySize()
	return m.width, m.height
}

// View renders the modal.
func (m *Model) View() string {
	view, _ := m.render()
	return view
}

// Layer returns the modal as a positioned layer. Every control is a child
// layer whose ID resolves through Lookup.
func (m *Model) Layer(z int) *lipgloss.Layer {
	view, hits := m.render()

	m.hits = map[string]*dialog.Element{m.ID(): m.root}
	children := make([]*lipgloss.Layer, 0, len(hits))
	for _, h := range hits {
		m.hits[h.id] = h.el
		children = append(children, lipgloss.NewLayer(h.content).ID(h.id).X(h.x).Y(h.y))
	}

	return lipgloss.NewLayer(view).ID(m.ID()).X(m.col).Y(m.row).Z(z).AddLayers(children...)
}

// Lookup returns the element behind a hit identifier produced by Layer.
func (m *Model) Lookup(id string) *dialog.Element {
	return m.hits[id]
}

// Update forwards non-key messages, such as cursor blinks, to the focused
// input.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.input.Focused() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// Edit delivers a key press or paste to the input control el.
func (m *Model) Edit(msg tea.Msg, el *dialog.Element) tea.Cmd {
	if el == nil || el.Kind != dialog.KindInput {
		return nil
	}

	text, editing := editOf(msg)
	if text != "" && !accepts(el.Type, text) {
		return nil
	}

	m.syncInput(el)
	if !m.input.Focused() {
		m.input.Focus()
	}
	if editing && el.FullySelected() {
		m.input.SetValue("")
		m.input.CursorStart()
		if text == "" {
			el.SetValue("")
			return nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	el.SetValue(m.input.Value())
	pos := m.input.Position()
	el.SetSelectionRange(pos, pos)
	return cmd
}

// MoveChoice checks the radio step positions away from el, wrapping around,
// and returns it.
func MoveChoice(el *dialog.Element, step int) *dialog.Element {
	radios := el.Radios()
	if len(radios) == 0 {
		return nil
	}
	index := 0
	for i, r := range radios {
		if r == el {
			index = i
			break
		}
	}
	next := radios[mathutil.Wrap(index+step, len(radios))]
	next.Check()
	return next
}

func (m *Model) inputElement() *dialog.Element {
	el := m.root.Query(dialog.NameInput)
	if el == nil || el.Kind != dialog.KindInput {
		return nil
	}
	return el
}

// syncInput copies the element value into the text input when they differ.
func (m *Model) syncInput(el *dialog.Element) {
	if m.input.Value() == el.Value {
		return
	}
	m.input.SetValue(el.Value)
	m.input.CursorEnd()
}

// editOf returns the text a message inserts and whether it edits the value.
func editOf(msg tea.Msg) (string, bool) {
	switch msg := msg.(type) {
	case tea.PasteMsg:
		return msg.Content, msg.Content != ""
	case tea.KeyPressMsg:
		switch msg.String() {
		case "backspace", "delete", "ctrl+h", "ctrl+d", "ctrl+w", "ctrl+k", "ctrl+u", "alt+backspace", "alt+delete":
			return "", true
		}
		if msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
			return "", false
		}
		return msg.Text, msg.Text != ""
	}
	return "", false
}

// accepts reports whether text may be typed into an input of type t.
func accepts(t dialog.InputType, text string) bool {
	var allowed string
	switch t {
	case dialog.TypeNumber:
		allowed = "0123456789.-+eE"
	case dialog.TypeTel:
		allowed = "0123456789+-() #*."
	default:
		return true
	}
	for _, r := range text {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

type hit struct {
	id      string
	el      *dialog.Element
	content string
	x, y    int
}

// parts is the dialog tree split into what the modal draws.
type parts struct {
	title    string
	close    *dialog.Element
	lines    []string
	input    *dialog.Element
	radios   []*dialog.Element
	progress *dialog.Element
	counter  *dialog.Element
	buttons  []*dialog.Element
}

func (m *Model) parts() parts {
	var p parts
	m.root.Walk(func(el *dialog.Element) bool {
		switch el.Kind {
		case dialog.KindHeader:
			p.title = el.Text
		case dialog.KindClose:
			p.close = el
		case dialog.KindText:
			p.lines = append(p.lines, el.Text)
		case dialog.KindInput:
			p.input = el
		case dialog.KindRadio:
			p.radios = append(p.radios, el)
		case dialog.KindProgress:
			p.progress = el
		case dialog.KindCounter:
			p.counter = el
		case dialog.KindButton:
			p.buttons = append(p.buttons, el)
		}
		return true
	})
	return p
}

func (m *Model) render() (string, []hit) {
	m.applySize()
	p := m.parts()

	box := m.frame(p.title, "")
	contentWidth := box.ContentWidth()
	originX, originY := box.ContentOrigin()

	var hits []hit
	lines := m.renderMessage(p.lines, contentWidth)

	if content, rowHits := m.renderContent(p, contentWidth); content != "" {
		lines = append(lines, "")
		for _, h := range rowHits {
			h.x += originX
			h.y = originY + len(lines)
			hits = append(hits, h)
		}
		lines = append(lines, content)
	}

	buttons, buttonHits := m.renderButtons(p.buttons, contentWidth)
	lines = append(lines, "")
	for _, h := range buttonHits {
		h.x += originX
		h.y = originY + len(lines)
		hits = append(hits, h)
	}
	lines = append(lines, buttons)

	box = m.frame(p.title, strings.Join(lines, "\n"))
	if p.close != nil {
		if col, w := box.MarkBounds(); w > 0 {
			mark := m.styles.Mark.Render(closeMark)
			if m.top {
				mark = m.styles.MarkFocus.Render(closeMark)
			}
			hits = append(hits, hit{id: m.hitID(dialog.NameClose), el: p.close, content: mark, x: col, y: 0})
		}
	}

	return box.View(), hits
}

func (m *Model) frame(title, content string) frame.Model {
	markStyle := m.styles.Mark
	if m.top {
		markStyle = m.styles.MarkFocus
	}
	return frame.New(
		frame.WithStyles(frame.Styles{
			Focused: frame.StyleState{
				Title:  m.styles.Title,
				Border: m.styles.BorderFocus,
				Mark:   markStyle,
			},
			Blurred: frame.StyleState{
				Title:  m.styles.Title,
				Border: m.styles.Border,
				Mark:   markStyle,
			},
		}),
		frame.WithTitle(title),
		frame.WithMark(closeMark),
		frame.WithContent(content),
		frame.WithPadding(m.padding),
		frame.WithSize(m.width, m.height),
		frame.WithMinHeight(3),
		frame.WithFocused(m.top),
	)
}

func (m *Model) hitID(name dialog.Name) string {
	return fmt.Sprintf("%d:%s", m.root.Level, name)
}

func (m *Model) renderMessage(lines []string, width int) []string {
	styled := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := lipgloss.Wrap(line, width, " ")
		for wrappedLine := range strings.SplitSeq(wrapped, "\n") {
			styled = append(styled, centerLine(m.styles.Text.Render(wrappedLine), width))
		}
	}
	return styled
}

// renderContent draws the input, picker or progress row. Hit x offsets are
// relative to the content area.
func (m *Model) renderContent(p parts, width int) (string, []hit) {
	switch {
	case p.input != nil:
		view := m.renderInput(p.input, width)
		return view, []hit{{id: m.hitID(dialog.NameInput), el: p.input, content: view}}
	case len(p.radios) > 0:
		return m.renderRadios(p.radios, width)
	case p.progress != nil:
		return m.renderProgress(p.progress, p.counter, width), nil
	}
	return "", nil
}

func (m *Model) renderInput(el *dialog.Element, width int) string {
	m.input.SetWidth(max(width-1, 1))
	focused := m.top && m.active == el
	if focused && !el.FullySelected() {
		m.syncInput(el)
		return m.styles.InputFocused.Render(padRight(m.input.View(), width))
	}

	value := el.Value
	if el.Type == dialog.TypePassword {
		value = strings.Repeat(string(m.input.EchoCharacter), utf8.RuneCountInString(value))
	}
	value = ansi.Truncate(value, width, "…")

	switch {
	case focused:
		return padRight(m.styles.Selection.Render(value), width)
	default:
		return m.styles.Input.Render(padRight(value, width))
	}
}

func (m *Model) renderRadios(radios []*dialog.Element, width int) (string, []hit) {
	rendered := make([]string, 0, len(radios))
	widths := make([]int, 0, len(radios))
	total := 0
	for i, r := range radios {
		mark := "( )"
		style := m.styles.Radio
		if r.Checked {
			mark = "(•)"
			style = m.styles.RadioChecked
		}
		if m.top && m.active == r {
			style = m.styles.RadioFocused
		}
		s := style.Render(mark + " " + r.Label)
		rendered = append(rendered, s)
		widths = append(widths, lipgloss.Width(s))
		total += widths[i]
	}
	total += lipgloss.Width(radioGap) * (len(radios) - 1)

	left := max((width-total)/2, 0)
	hits := make([]hit, 0, len(radios))
	x := left
	for i, r := range radios {
		hits = append(hits, hit{
			id:      fmt.Sprintf("%d:radio:%d", m.root.Level, i),
			el:      r,
			content: rendered[i],
			x:       x,
		})
		x += widths[i] + lipgloss.Width(radioGap)
	}
	return strings.Repeat(" ", left) + strings.Join(rendered, radioGap), hits
}

func (m *Model) renderProgress(bar, counter *dialog.Element, width int) string {
	m.bar.SetWidth(max(width-counterWidth-1, 1))
	text := ""
	if counter != nil {
		text = counter.Text
	}
	return m.bar.ViewAs(float64(bar.Progress)/100) + " " +
		m.styles.Counter.Render(fmt.Sprintf("%*s", counterWidth, text))
}

func (m *Model) renderButtons(buttons []*dialog.Element, width int) (string, []hit) {
	rendered := make([]string, 0, len(buttons))
	total := 0
	for _, btn := range buttons {
		style := m.styles.Button
		if m.top && m.active == btn {
			style = m.styles.ButtonFocused
		}
		s := style.Render(btn.Label)
		rendered = append(rendered, s)
		total += lipgloss.Width(s)
	}
	if len(buttons) > 1 {
		total += lipgloss.Width(buttonGap) * (len(buttons) - 1)
	}

	left := max((width-total)/2, 0)
	hits := make([]hit, 0, len(buttons))
	x := left
	for i, btn := range buttons {
		hits = append(hits, hit{id: m.hitID(btn.Name), el: btn, content: rendered[i], x: x})
		x += lipgloss.Width(rendered[i]) + lipgloss.Width(buttonGap)
	}
	return strings.Repeat(" ", left) + strings.Join(rendered, buttonGap), hits
}

func (m *Model) buttonsWidth() int {
	total := 0
	for _, btn := range m.parts().buttons {
		total += lipgloss.Width(m.styles.ButtonFocused.Render(btn.Label)) + lipgloss.Width(buttonGap)
	}
	return total
}

// choicesWidth is the width of the picker row with every choice unchecked.
func (m *Model) choicesWidth() int {
	radios := m.parts().radios
	if len(radios) == 0 {
		return 0
	}
	total := lipgloss.Width(radioGap) * (len(radios) - 1)
	for _, r := range radios {
		total += lipgloss.Width(m.styles.RadioFocused.Render("( ) " + r.Label))
	}
	return total
}

func (m *Model) applySize() {
	if m.windowWidth == 0 || m.windowHeight == 0 {
		return
	}

	dialogWidth := max(m.windowWidth/2, m.minWidth, max(m.buttonsWidth(), m.choicesWidth())+2+(m.padding*2))
	dialogWidth = min(dialogWidth, m.windowWidth-4)
	if dialogWidth < 10 {
		dialogWidth = max(m.windowWidth-2, 10)
	}

	contentWidth := max(dialogWidth-2-(m.padding*2), 1)
	p := m.parts()
	contentLines := len(m.renderMessage(p.lines, contentWidth)) + 2
	if p.input != nil || len(p.radios) > 0 || p.progress != nil {
		contentLines += 2
	}

	dialogHeight := contentLines + 2
	dialogHeight = max(dialogHeight, 3)
	dialogHeight = min(dialogHeight, max(m.windowHeight-2, 3))

	m.width = dialogWidth
	m.height = dialogHeight
	m.row = max((m.windowHeight-dialogHeight)/2, 0) + min(m.offset, max(m.windowHeight-dialogHeight, 0)/2)
	m.col = max((m.windowWidth-dialogWidth)/2, 0) + min(m.offset, max(m.windowWidth-dialogWidth, 0)/2)
}

func centerLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	lineWidth := lipgloss.Width(line)
	if lineWidth >= width {
		return line
	}
	left := (width - lineWidth) / 2
	return strings.Repeat(" ", left) + line
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
