// Package frame renders a titled bordered box with an optional close mark.
package frame

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// StyleState holds styles for a focus state.
type StyleState struct {
	Title  lipgloss.Style
	Border lipgloss.Style
	Mark   lipgloss.Style
}

// Styles holds focus-aware styles for a frame.
type Styles struct {
	Focused StyleState
	Blurred StyleState
}

// DefaultStyles returns default styles for a frame.
func DefaultStyles() Styles {
	state := StyleState{
		Title:  lipgloss.NewStyle().Bold(true),
		Border: lipgloss.NewStyle(),
		Mark:   lipgloss.NewStyle(),
	}
	return Styles{
		Focused: state,
		Blurred: state,
	}
}

// Model defines state for the frame component.
type Model struct {
	styles       Styles
	title        string
	mark         string
	content      string
	width        int
	height       int
	minHeight    int
	padding      int
	titlePadding int
	focused      bool
	border       lipgloss.Border
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new frame model.
func New(opts ...Option) Model {
	m := Model{
		styles:       DefaultStyles(),
		titlePadding: 1,
		border:       lipgloss.RoundedBorder(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithTitle sets the title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithMark sets the mark drawn at the right end of the top border.
func WithMark(mark string) Option {
	return func(m *Model) {
		m.mark = mark
	}
}

// WithContent sets the content.
func WithContent(content string) Option {
	return func(m *Model) {
		m.content = content
	}
}

// WithSize sets width and height.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithMinHeight sets the minimum height.
func WithMinHeight(height int) Option {
	return func(m *Model) {
		m.minHeight = height
	}
}

// WithPadding sets horizontal padding inside the frame.
func WithPadding(padding int) Option {
	return func(m *Model) {
		m.padding = padding
	}
}

// WithTitlePadding sets the title padding.
func WithTitlePadding(padding int) Option {
	return func(m *Model) {
		m.titlePadding = padding
	}
}

// WithFocused sets the focus state.
func WithFocused(focused bool) Option {
	return func(m *Model) {
		m.focused = focused
	}
}

// WithBorder sets the border characters.
func WithBorder(border lipgloss.Border) Option {
	return func(m *Model) {
		m.border = border
	}
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the rendered height.
func (m Model) Height() int {
	if m.minHeight > 0 {
		return max(m.height, m.minHeight)
	}
	return m.height
}

// ContentOrigin returns the offset of the first content cell from the
// top-left corner of the frame.
func (m Model) ContentOrigin() (int, int) {
	return 1 + m.padding, 1
}

// ContentWidth returns the width available to content.
func (m Model) ContentWidth() int {
	return max(m.width-2-(m.padding*2), 0)
}

// MarkBounds returns the column and width of the mark on the top border.
// Width is zero when no mark is drawn.
func (m Model) MarkBounds() (int, int) {
	if m.mark == "" || m.width <= 0 {
		return 0, 0
	}
	w := lipgloss.Width(m.mark)
	innerWidth := max(m.width-2, 0)
	if w+2 > innerWidth {
		return 0, 0
	}
	// Corner, then everything up to the right pad.
	return 1 + innerWidth - 1 - w, w
}

// View renders the frame with the current content.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	effectiveHeight := m.Height()
	if effectiveHeight < 2 {
		return ""
	}

	state := m.styles.Blurred
	if m.focused {
		state = m.styles.Focused
	}

	innerWidth := max(m.width-2, 0)
	contentHeight := max(effectiveHeight-2, 0)

	top := m.renderTopBorder(state, innerWidth)
	body := m.renderBody(state, innerWidth, contentHeight)
	bottom := m.renderBottomBorder(state, innerWidth)

	if contentHeight == 0 {
		return top + "\n" + bottom
	}

	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}

func (m Model) renderTopBorder(state StyleState, innerWidth int) string {
	topLeft := state.Border.Render(m.border.TopLeft)
	topRight := state.Border.Render(m.border.TopRight)
	hBar := state.Border.Render(m.border.Top)

	leftPad := 1
	rightPad := 1
	available := max(innerWidth-leftPad-rightPad, 0)

	mark := ""
	markWidth := 0
	if _, w := m.MarkBounds(); w > 0 {
		mark = state.Mark.Render(m.mark)
		markWidth = w
	}

	title := padLabel(m.title, m.titlePadding)
	if limit := available - markWidth - 1; lipgloss.Width(title) > limit {
		title = ansi.Truncate(title, max(limit, 0), "…")
	}
	styledTitle := state.Title.Render(title)
	titleWidth := lipgloss.Width(styledTitle)

	remaining := max(available-titleWidth-markWidth, 0)

	return topLeft +
		strings.Repeat(hBar, leftPad) +
		styledTitle +
		strings.Repeat(hBar, remaining) +
		mark +
		strings.Repeat(hBar, rightPad) +
		topRight
}

func (m Model) renderBottomBorder(state StyleState, innerWidth int) string {
	bottomLeft := state.Border.Render(m.border.BottomLeft)
	bottomRight := state.Border.Render(m.border.BottomRight)
	hBar := state.Border.Render(m.border.Bottom)
	return bottomLeft + strings.Repeat(hBar, innerWidth) + bottomRight
}

func (m Model) renderBody(state StyleState, innerWidth, contentHeight int) []string {
	if contentHeight <= 0 {
		return nil
	}

	lines := strings.Split(m.content, "\n")
	body := make([]string, 0, contentHeight)

	vBar := state.Border.Render(m.border.Left)
	vBarRight := state.Border.Render(m.border.Right)

	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}

		line = padLine(line, innerWidth, m.padding)
		body = append(body, vBar+line+vBarRight)
	}

	return body
}

func padLine(line string, width, padding int) string {
	if width <= 0 {
		return ""
	}

	if padding > 0 {
		spaces := strings.Repeat(" ", padding)
		line = spaces + line + spaces
	}

	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}
	if lineWidth > width {
		line = ansi.Truncate(line, width, "")
	}
	return line
}

func padLabel(label string, padding int) string {
	if label == "" || padding <= 0 {
		return label
	}
	spaces := strings.Repeat(" ", padding)
	return spaces + label + spaces
}
