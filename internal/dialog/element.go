package dialog

import (
	"slices"
	"unicode/utf8"
)

// Name is the logical tag of an interactive element.
type Name string

// Logical element names recognized by the engine.
const (
	NameOK       Name = "ok"
	NameCancel   Name = "cancel"
	NameInput    Name = "input"
	NameClose    Name = "close"
	NameProgress Name = "progress"
	NameCounter  Name = "counter"
)

// Kind describes what an element renders as.
type Kind int

const (
	// KindContainer groups other elements.
	KindContainer Kind = iota
	// KindDialog is the root of one dialog instance.
	KindDialog
	// KindHeader holds the dialog title.
	KindHeader
	// KindText is a line of message text.
	KindText
	// KindButton is an activatable button.
	KindButton
	// KindClose is the close mark in the dialog corner.
	KindClose
	// KindInput is a single-line input control.
	KindInput
	// KindRadio is one choice of the shape picker.
	KindRadio
	// KindProgress is a progress indicator.
	KindProgress
	// KindCounter is the textual progress counter.
	KindCounter
)

// Element is a node of the dialog element tree.
type Element struct {
	Kind Kind
	Name Name
	// Type is the input type for KindInput and KindRadio elements.
	Type InputType
	// Label is the display text of buttons and radios.
	Label string
	// Text is the content of text, header and counter elements.
	Text string
	// Value is the current value of inputs and radios.
	Value string
	// Checked reports whether a radio is selected.
	Checked bool
	// Progress is the indicator value of a KindProgress element.
	Progress int
	// Level is the stacking level of a KindDialog element.
	Level int

	selStart, selEnd int

	parent    *Element
	children  []*Element
	listeners map[EventType][]Listener
}

// NewElement creates a detached element.
func NewElement(kind Kind, name Name) *Element {
	return &Element{Kind: kind, Name: name}
}

// Parent returns the element's parent, or nil when detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the element's children in document order.
func (e *Element) Children() []*Element {
	return e.children
}

// Append attaches children to e, detaching them from any previous parent.
func (e *Element) Append(children ...*Element) *Element {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.Detach()
		child.parent = e
		e.children = append(e.children, child)
	}
	return e
}

// Detach removes e from its parent. It reports whether anything changed.
func (e *Element) Detach() bool {
	p := e.parent
	if p == nil {
		return false
	}
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
	return true
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Walk visits e and its descendants in document order until fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, child := range e.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Query returns the first descendant of e tagged with name.
func (e *Element) Query(name Name) *Element {
	var found *Element
	for _, child := range e.children {
		child.Walk(func(n *Element) bool {
			if n.Name == name {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// Closest returns the nearest element from e up to its root whose name is in
// names, or nil.
func (e *Element) Closest(names ...Name) *Element {
	for n := e; n != nil; n = n.parent {
		for _, name := range names {
			if n.Name == name {
				return n
			}
		}
	}
	return nil
}

// SetValue replaces the value and collapses the selection to its end.
func (e *Element) SetValue(value string) {
	e.Value = value
	n := utf8.RuneCountInString(value)
	e.selStart, e.selEnd = n, n
}

// SetSelectionRange selects runes [start, end) of the value.
func (e *Element) SetSelectionRange(start, end int) {
	n := utf8.RuneCountInString(e.Value)
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	e.selStart, e.selEnd = start, end
}

// SelectionRange returns the selected rune range of the value.
func (e *Element) SelectionRange() (int, int) {
	return e.selStart, e.selEnd
}

// FullySelected reports whether a non-empty value is entirely selected.
func (e *Element) FullySelected() bool {
	n := utf8.RuneCountInString(e.Value)
	return n > 0 && e.selStart == 0 && e.selEnd == n
}

// Check selects a radio and clears its siblings.
func (e *Element) Check() {
	if e.Kind != KindRadio {
		return
	}
	if e.parent != nil {
		for _, sibling := range e.parent.children {
			if sibling.Kind == KindRadio && sibling.Name == e.Name {
				sibling.Checked = false
			}
		}
	}
	e.Checked = true
}

// Radios returns the radio choices grouped with e, including e itself.
func (e *Element) Radios() []*Element {
	if e.Kind != KindRadio || e.parent == nil {
		return nil
	}
	var radios []*Element
	for _, sibling := range e.parent.children {
		if sibling.Kind == KindRadio && sibling.Name == e.Name {
			radios = append(radios, sibling)
		}
	}
	return radios
}

// AddEventListener registers fn for events of type t on e.
func (e *Element) AddEventListener(t EventType, fn Listener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]Listener)
	}
	e.listeners[t] = append(e.listeners[t], fn)
}
