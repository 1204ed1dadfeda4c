// Package dialogs keeps one modal per dialog mounted on a document and
// composes them into layers.
package dialogs

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/ui/dialogs/modal"
)

// DialogCmp manages the modals of a document.
type DialogCmp struct {
	doc           *dialog.Document
	opts          []modal.Option
	width, height int
	views         map[*dialog.Element]*modal.Model
	dialogs       []*modal.Model
}

// NewDialogCmp creates a dialog manager for doc. opts apply to every modal.
func NewDialogCmp(doc *dialog.Document, opts ...modal.Option) *DialogCmp {
	return &DialogCmp{
		doc:   doc,
		opts:  opts,
		views: make(map[*dialog.Element]*modal.Model),
	}
}

// SetSize sets the terminal size.
func (d *DialogCmp) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Sync matches the modals to the dialogs mounted on the document, lowest
// level first, and refreshes their focus state.
func (d *DialogCmp) Sync() tea.Cmd {
	roots := d.doc.Dialogs()
	active := d.doc.ActiveElement()

	seen := make(map[*dialog.Element]struct{}, len(roots))
	d.dialogs = d.dialogs[:0]
	cmds := make([]tea.Cmd, 0, len(roots))
	for i, root := range roots {
		seen[root] = struct{}{}
		view, ok := d.views[root]
		if !ok {
			view = modal.New(root, d.opts...)
			d.views[root] = view
		}
		view.SetWindowSize(d.width, d.height)
		view.SetOffset(i)
		cmds = append(cmds, view.SetFocus(active, i == len(roots)-1))
		d.dialogs = append(d.dialogs, view)
	}
	for root := range d.views {
		if _, ok := seen[root]; !ok {
			delete(d.views, root)
		}
	}

	return tea.Batch(cmds...)
}

// Dialogs returns the modals in stacking order.
func (d *DialogCmp) Dialogs() []*modal.Model {
	return d.dialogs
}

// HasDialogs reports whether any dialog is mounted.
func (d *DialogCmp) HasDialogs() bool {
	return len(d.dialogs) > 0
}

// ActiveModel returns the topmost modal.
func (d *DialogCmp) ActiveModel() *modal.Model {
	if len(d.dialogs) == 0 {
		return nil
	}
	return d.dialogs[len(d.dialogs)-1]
}

// ModelFor returns the modal whose dialog contains el.
func (d *DialogCmp) ModelFor(el *dialog.Element) *modal.Model {
	for _, view := range d.dialogs {
		if view.Root().Contains(el) {
			return view
		}
	}
	return nil
}

// GetLayers returns one layer per modal, the topmost last.
func (d *DialogCmp) GetLayers() []*lipgloss.Layer {
	layers := make([]*lipgloss.Layer, 0, len(d.dialogs))
	for i, view := range d.dialogs {
		layers = append(layers, view.Layer(i+2))
	}
	return layers
}

// Lookup resolves a hit identifier from the last GetLayers call.
func (d *DialogCmp) Lookup(id string) *dialog.Element {
	if id == "" {
		return nil
	}
	for _, view := range d.dialogs {
		if el := view.Lookup(id); el != nil {
			return el
		}
	}
	return nil
}
