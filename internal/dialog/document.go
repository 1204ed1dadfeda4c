package dialog

import (
	"cmp"
	"slices"
)

// Surface is the element-tree capability the dialog engine depends on.
type Surface interface {
	// Find returns, for each name, the first element under root tagged with
	// it. Missing names are skipped; the result follows the order of names.
	Find(root *Element, names ...Name) []*Element
	// FocusedName returns the name of the focused element when it lies
	// inside root.
	FocusedName(root *Element) (Name, bool)
	// Focus moves focus to el.
	Focus(el *Element)
	// Mount attaches root as a new top-level overlay.
	Mount(root *Element)
}

// Document is an in-memory page: a body that dialogs mount on and the
// currently focused element.
type Document struct {
	body   *Element
	active *Element
}

var _ Surface = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{body: NewElement(KindContainer, "")}
}

// Body returns the document body.
func (d *Document) Body() *Element {
	return d.body
}

// Mount appends root to the body.
func (d *Document) Mount(root *Element) {
	d.body.Append(root)
}

// Find implements Surface.
func (d *Document) Find(root *Element, names ...Name) []*Element {
	if root == nil {
		return nil
	}
	found := make([]*Element, 0, len(names))
	for _, name := range names {
		if el := root.Query(name); el != nil {
			found = append(found, el)
		}
	}
	return found
}

// Focus implements Surface.
func (d *Document) Focus(el *Element) {
	d.active = el
}

// ActiveElement returns the focused element, or nil when nothing attached to
// the document has focus.
func (d *Document) ActiveElement() *Element {
	if d.active == nil || !d.body.Contains(d.active) {
		return nil
	}
	return d.active
}

// FocusedName implements Surface.
func (d *Document) FocusedName(root *Element) (Name, bool) {
	active := d.ActiveElement()
	if active == nil || root == nil || !root.Contains(active) || active.Name == "" {
		return "", false
	}
	return active.Name, true
}

// Dialogs returns the mounted dialog roots ordered by stacking level, lowest
// first.
func (d *Document) Dialogs() []*Element {
	var roots []*Element
	for _, child := range d.body.children {
		if child.Kind == KindDialog {
			roots = append(roots, child)
		}
	}
	slices.SortStableFunc(roots, func(a, b *Element) int {
		return cmp.Compare(a.Level, b.Level)
	})
	return roots
}

// Top returns the mounted dialog with the highest stacking level.
func (d *Document) Top() *Element {
	roots := d.Dialogs()
	if len(roots) == 0 {
		return nil
	}
	return roots[len(roots)-1]
}
