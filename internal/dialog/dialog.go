// Package dialog implements modal dialogs over an element tree: construction,
// focus handling, the keyboard state machine and a completion handle that
// settles exactly once.
package dialog

import (
	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/logging"
)

type options struct {
	inputType InputType
	buttons   Buttons
	noCancel  bool
	stack     *Stack
}

// Option configures a dialog.
type Option func(*options)

// WithType sets the input control rendered by Prompt.
func WithType(t InputType) Option {
	return func(o *options) {
		o.inputType = ParseInputType(string(t))
	}
}

// WithButtons overrides the button set. Keys are lower-cased. Entries with
// an empty key, a reserved key (close, input) or a key already in the set
// are dropped.
func WithButtons(buttons Buttons) Option {
	return func(o *options) {
		if set := buttons.normalize(); len(set) > 0 {
			o.buttons = set
		}
	}
}

// WithoutCancel makes dismissal settle the dialog as Closed instead of
// rejecting it with ErrDismissed.
func WithoutCancel() Option {
	return func(o *options) {
		o.noCancel = true
	}
}

// WithStack sets the stacking service the dialog draws its level from.
func WithStack(s *Stack) Option {
	return func(o *options) {
		if s != nil {
			o.stack = s
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		inputType: TypeText,
		stack:     defaultStack,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// settlingNames are the controls a click settles the dialog on, besides
// custom buttons.
var settlingNames = []Name{NameClose, NameCancel, NameOK}

// Instance is the live state of one open dialog.
type Instance struct {
	surface  Surface
	root     *Element
	ring     []Name
	noCancel bool
	cell     *Cell
}

// Open builds a dialog, mounts it on surface above every earlier dialog,
// focuses its primary control and wires its listeners.
func Open(surface Surface, title, message string, content Fragment, buttons Buttons, opts ...Option) *Handle {
	o := newOptions(opts)
	buttons = buttons.normalize()

	root := Template(title, message, content, buttons)
	root.Level = o.stack.Next()

	d := &Instance{
		surface:  surface,
		root:     root,
		ring:     buildRing(root, buttons),
		noCancel: o.noCancel,
		cell:     NewCell(),
	}

	surface.Mount(root)
	d.focusPrimary()
	for _, el := range surface.Find(root, NameInput) {
		if el.Type.selectsOnOpen() {
			el.SetSelectionRange(0, runeLen(el.Value))
		}
	}

	for _, el := range d.settlingControls(buttons) {
		el.AddEventListener(EventClick, func(ev *Event) {
			d.closeDialog(ev.Current)
		})
	}
	refocus := func(ev *Event) {
		ev.StopPropagation()
		if root.Parent() != nil {
			d.focusPrimary()
		}
	}
	root.AddEventListener(EventClick, refocus)
	root.AddEventListener(EventContextMenu, refocus)
	root.AddEventListener(EventKeyDown, d.keyDown)

	logging.Debug("dialog opened",
		zap.String("title", title),
		zap.Int("level", root.Level),
		zap.Any("ring", d.ring),
	)

	return &Handle{inst: d}
}

// buildRing lists the tab-cycle order: the input control, then the buttons.
func buildRing(root *Element, buttons Buttons) []Name {
	var ring []Name
	if root.Query(NameInput) != nil {
		ring = append(ring, NameInput)
	}
	ring = append(ring, buttons.Keys()...)
	return ring
}

func (d *Instance) settlingControls(buttons Buttons) []*Element {
	names := append([]Name(nil), settlingNames...)
	for _, key := range buttons.Keys() {
		if key != NameOK && key != NameCancel {
			names = append(names, key)
		}
	}
	return d.surface.Find(d.root, names...)
}

// focusPrimary focuses the ok button, or the input control when there is
// one. The shape picker does not take focus on its own.
func (d *Instance) focusPrimary() {
	for _, el := range d.surface.Find(d.root, NameOK, NameInput) {
		if el.Kind == KindRadio {
			continue
		}
		d.surface.Focus(el)
	}
}

// closeDialog settles the dialog for an activation of el and removes it.
func (d *Instance) closeDialog(el *Element) {
	if el == nil || el.Name == "" {
		return
	}
	switch el.Name {
	case NameClose, NameCancel:
		d.cancel(el.Name)
		d.remove()
		return
	}

	value, hasValue := d.value()
	button := el.Name
	if el.Kind == KindRadio || el.Kind == KindInput {
		button = NameInput
	}
	d.resolve(button, value, hasValue)
	d.remove()
}

// value returns the current value of the input control. For the shape picker
// it is the value of the checked choice.
func (d *Instance) value() (string, bool) {
	input := d.root.Query(NameInput)
	if input == nil {
		return "", false
	}
	if input.Kind == KindRadio {
		for _, radio := range input.Radios() {
			if radio.Checked {
				return radio.Value, true
			}
		}
		return "", true
	}
	return input.Value, true
}

func (d *Instance) resolve(button Name, value string, hasValue bool) bool {
	ok := d.cell.TrySettle(Outcome{
		Kind:     Confirmed,
		Value:    value,
		HasValue: hasValue,
		Button:   button,
	})
	if ok {
		logging.Debug("dialog confirmed",
			zap.Int("level", d.root.Level),
			zap.String("button", string(button)),
		)
	}
	return ok
}

func (d *Instance) cancel(button Name) bool {
	o := Outcome{Kind: Dismissed, Button: button, Err: ErrDismissed}
	if d.noCancel {
		o = Outcome{Kind: Closed, Button: button}
	}
	ok := d.cell.TrySettle(o)
	if ok {
		logging.Debug("dialog dismissed",
			zap.Int("level", d.root.Level),
			zap.Stringer("outcome", o.Kind),
		)
	}
	return ok
}

// remove detaches the root if it is still mounted.
func (d *Instance) remove() bool {
	if !d.root.Detach() {
		return false
	}
	logging.Debug("dialog removed", zap.Int("level", d.root.Level))
	return true
}
