package dialog

import (
	"slices"

	"github.com/kpumuk/smalltalk/internal/mathutil"
)

// keyDown interprets one key press inside the dialog.
func (d *Instance) keyDown(ev *Event) {
	defer ev.StopPropagation()

	switch {
	case ev.Key == KeyEnter:
		ev.PreventDefault()
		d.closeDialog(d.focused(ev.Target))
	case ev.Key == KeyEscape:
		d.remove()
		d.cancel("")
	case ev.Key == KeyTab:
		ev.PreventDefault()
		if ev.Shift {
			d.tab(-1)
		} else {
			d.tab(1)
		}
	case ev.Key.isArrow():
		d.changeButtonFocus()
	}
}

// focused returns the element a key press acts on: the focused control when
// it belongs to this dialog, otherwise the event target.
func (d *Instance) focused(target *Element) *Element {
	if name, ok := d.surface.FocusedName(d.root); ok {
		if els := d.surface.Find(d.root, name); len(els) > 0 {
			if target != nil && target.Name == name && d.root.Contains(target) {
				return target
			}
			return els[0]
		}
	}
	if target != nil && target != d.root && d.root.Contains(target) {
		return target
	}
	return nil
}

// tab moves focus step positions around the ring, wrapping at both ends.
// With nothing focused, a forward step lands on the first entry and a
// backward step on the last.
func (d *Instance) tab(step int) {
	n := len(d.ring)
	if n == 0 {
		return
	}
	index := -1
	if name, ok := d.surface.FocusedName(d.root); ok {
		index = slices.Index(d.ring, name)
	}
	switch {
	case index < 0 && step > 0:
		index = 0
	case index < 0:
		index = n - 1
	default:
		index = mathutil.Wrap(index+step, n)
	}
	for _, el := range d.surface.Find(d.root, d.ring[index]) {
		d.surface.Focus(el)
	}
}

// changeButtonFocus toggles focus between ok and cancel.
func (d *Instance) changeButtonFocus() {
	if len(d.ring) < 2 {
		return
	}
	name, ok := d.surface.FocusedName(d.root)
	if !ok {
		return
	}
	var next Name
	switch name {
	case NameOK:
		next = NameCancel
	case NameCancel:
		next = NameOK
	default:
		return
	}
	for _, el := range d.surface.Find(d.root, next) {
		d.surface.Focus(el)
	}
}
