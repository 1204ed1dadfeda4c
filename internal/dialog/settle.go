package dialog

import (
	"context"
	"errors"
	"sync"
)

// ErrDismissed is the rejection of a dialog the user cancelled or closed
// without confirming.
var ErrDismissed = errors.New("dialog dismissed")

// OutcomeKind tells how a dialog was settled.
type OutcomeKind int

const (
	// Confirmed means the dialog resolved, by the user or by completion.
	Confirmed OutcomeKind = iota
	// Dismissed means the dialog was rejected with ErrDismissed.
	Dismissed
	// Closed means the dialog was dismissed while cancellation was disabled.
	// It is not an error.
	Closed
)

func (k OutcomeKind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case Dismissed:
		return "dismissed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome is the settled result of a dialog.
type Outcome struct {
	Kind OutcomeKind
	// Value is the input value, valid when HasValue is set.
	Value    string
	HasValue bool
	// Button is the control that settled the dialog. It is empty for
	// programmatic completion.
	Button Name
	Err    error
}

// State is the settlement state of a Cell.
type State int

const (
	// Pending means no settlement has happened yet.
	Pending State = iota
	// Settled means the outcome is final.
	Settled
)

// Cell holds an outcome that can be set exactly once.
type Cell struct {
	mu      sync.Mutex
	state   State
	outcome Outcome
	done    chan struct{}
}

// NewCell creates a pending cell.
func NewCell() *Cell {
	return &Cell{done: make(chan struct{})}
}

// TrySettle stores o if the cell is still pending and reports whether it did.
func (c *Cell) TrySettle(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Settled {
		return false
	}
	c.state = Settled
	c.outcome = o
	close(c.done)
	return true
}

// State returns the current state.
func (c *Cell) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outcome returns the outcome and whether the cell has settled.
func (c *Cell) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.state == Settled
}

// Done is closed once the cell settles.
func (c *Cell) Done() <-chan struct{} {
	return c.done
}

// Handle is the completion handle of one dialog instance.
type Handle struct {
	inst *Instance
}

// Dialog returns the dialog's root element.
func (h *Handle) Dialog() *Element {
	return h.inst.root
}

// Level returns the dialog's stacking level.
func (h *Handle) Level() int {
	return h.inst.root.Level
}

// Ring returns the tab-cycle order of the dialog's controls.
func (h *Handle) Ring() []Name {
	return append([]Name(nil), h.inst.ring...)
}

// Done is closed once the dialog settles.
func (h *Handle) Done() <-chan struct{} {
	return h.inst.cell.Done()
}

// Outcome returns the outcome and whether the dialog has settled.
func (h *Handle) Outcome() (Outcome, bool) {
	return h.inst.cell.Outcome()
}

// Settled reports whether the dialog has settled.
func (h *Handle) Settled() bool {
	return h.inst.cell.State() == Settled
}

// Wait blocks until the dialog settles or ctx ends. A dismissed dialog
// returns ErrDismissed; confirmed and closed dialogs return their value.
func (h *Handle) Wait(ctx context.Context) (string, error) {
	select {
	case <-h.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	}
	o, _ := h.Outcome()
	return o.Value, o.Err
}

// Resolve settles the dialog as confirmed with an optional value. It reports
// whether this call settled it. The dialog stays mounted.
func (h *Handle) Resolve(value string, hasValue bool) bool {
	return h.inst.resolve("", value, hasValue)
}

// Remove detaches the dialog without settling it. It reports whether the
// dialog was still mounted.
func (h *Handle) Remove() bool {
	return h.inst.remove()
}
