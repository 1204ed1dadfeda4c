package dialog

import (
	"strings"
	"unicode/utf8"
)

// InputType selects the input control a prompt renders.
type InputType string

// Input types understood by Prompt.
const (
	TypeText     InputType = "text"
	TypeDate     InputType = "date"
	TypeEmail    InputType = "email"
	TypeNumber   InputType = "number"
	TypeTel      InputType = "tel"
	TypePassword InputType = "password"
	TypeColor    InputType = "color"
	TypeShapes   InputType = "shapes"
	// TypeRadio marks the choices of the shape picker.
	TypeRadio InputType = "radio"
)

var inputTypes = []InputType{TypeDate, TypeEmail, TypeNumber, TypeTel, TypePassword, TypeColor, TypeShapes}

// ParseInputType maps s to an input type, falling back to TypeText.
func ParseInputType(s string) InputType {
	t := InputType(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range inputTypes {
		if t == valid {
			return t
		}
	}
	return TypeText
}

// selectsOnOpen reports whether the value is pre-selected when the dialog
// opens. Native pickers handle their own selection.
func (t InputType) selectsOnOpen() bool {
	switch t {
	case TypeDate, TypeEmail, TypeNumber, TypeColor, TypeRadio, TypeShapes:
		return false
	default:
		return true
	}
}

// Button is one entry of a button set.
type Button struct {
	Key   Name
	Label string
}

// Buttons is an ordered button set, rendered left to right.
type Buttons []Button

// Keys returns the button keys in order.
func (b Buttons) Keys() []Name {
	keys := make([]Name, 0, len(b))
	for _, btn := range b {
		keys = append(keys, btn.Key)
	}
	return keys
}

// Reserved reports whether key names a control the template builds itself.
func Reserved(key Name) bool {
	return key == NameClose || key == NameInput
}

// normalize lower-cases the keys and drops entries with an empty, reserved
// or repeated key.
func (b Buttons) normalize() Buttons {
	set := make(Buttons, 0, len(b))
	seen := make(map[Name]bool, len(b))
	for _, btn := range b {
		key := Name(strings.ToLower(strings.TrimSpace(string(btn.Key))))
		if key == "" || Reserved(key) || seen[key] {
			continue
		}
		seen[key] = true
		set = append(set, Button{Key: key, Label: btn.Label})
	}
	return set
}

var (
	// ButtonsOK is the default alert button set.
	ButtonsOK = Buttons{{Key: NameOK, Label: "OK"}}
	// ButtonsOKCancel is the default confirm and prompt button set.
	ButtonsOKCancel = Buttons{{Key: NameOK, Label: "OK"}, {Key: NameCancel, Label: "Cancel"}}
	// ButtonsAbort is the progress button set.
	ButtonsAbort = Buttons{{Key: NameCancel, Label: "Abort"}}
)

// Fragment builds the extra content placed under the message.
type Fragment func() []*Element

// Shape is one choice of the shape picker.
type Shape struct {
	Value string
	Label string
}

// Shapes lists the shape picker choices in display order.
var Shapes = []Shape{
	{Value: "l", Label: "L"},
	{Value: "x", Label: "X"},
	{Value: "y", Label: "Y"},
	{Value: "triangle", Label: "▲"},
	{Value: "square", Label: "◼"},
	{Value: "circle", Label: "●"},
}

// InputFragment renders a single input control holding value.
func InputFragment(t InputType, value string) Fragment {
	return func() []*Element {
		if t == TypeShapes {
			return shapePicker()
		}
		input := NewElement(KindInput, NameInput)
		input.Type = t
		input.SetValue(value)
		return []*Element{input}
	}
}

func shapePicker() []*Element {
	group := NewElement(KindContainer, "")
	for _, shape := range Shapes {
		radio := NewElement(KindRadio, NameInput)
		radio.Type = TypeRadio
		radio.Value = shape.Value
		radio.Label = shape.Label
		group.Append(radio)
	}
	return []*Element{group}
}

// ProgressFragment renders a progress indicator at 0 and its counter.
func ProgressFragment() Fragment {
	return func() []*Element {
		bar := NewElement(KindProgress, NameProgress)
		counter := NewElement(KindCounter, NameCounter)
		counter.Text = "0%"
		return []*Element{bar, counter}
	}
}

// Template builds the element tree of a dialog. Message lines become
// separate text elements.
func Template(title, message string, content Fragment, buttons Buttons) *Element {
	root := NewElement(KindDialog, "")

	header := NewElement(KindHeader, "")
	header.Text = title

	area := NewElement(KindContainer, "")
	for _, line := range strings.Split(message, "\n") {
		text := NewElement(KindText, "")
		text.Text = line
		area.Append(text)
	}
	if content != nil {
		area.Append(content()...)
	}

	strip := NewElement(KindContainer, "")
	for _, btn := range buttons {
		el := NewElement(KindButton, btn.Key)
		el.Label = btn.Label
		strip.Append(el)
	}

	return root.Append(NewElement(KindClose, NameClose), header, area, strip)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
