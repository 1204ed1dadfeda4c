package dialog

// EventType identifies the kind of an event.
type EventType int

const (
	// EventClick is a primary activation of an element.
	EventClick EventType = iota
	// EventContextMenu is a secondary (right) click.
	EventContextMenu
	// EventKeyDown is a key press.
	EventKeyDown
)

// Key identifies the keys the keyboard state machine understands.
type Key int

const (
	// KeyOther is any key without engine semantics.
	KeyOther Key = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyTab:
		return "tab"
	case KeyLeft:
		return "left"
	case KeyUp:
		return "up"
	case KeyRight:
		return "right"
	case KeyDown:
		return "down"
	default:
		return "other"
	}
}

func (k Key) isArrow() bool {
	return k == KeyLeft || k == KeyUp || k == KeyRight || k == KeyDown
}

// Event is dispatched to an element and bubbles up through its ancestors.
type Event struct {
	Type   EventType
	Key    Key
	Shift  bool
	Target *Element
	// Current is the element whose listener is running.
	Current *Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the host's default action for the event.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation keeps the event from reaching further ancestors.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (ev *Event) PropagationStopped() bool {
	return ev.stopped
}

// Listener handles an event.
type Listener func(ev *Event)

// Dispatch delivers ev to its target and then to each ancestor until a
// listener stops propagation. The ancestor chain is captured before any
// listener runs, so detaching nodes mid-dispatch does not cut it short.
func Dispatch(ev *Event) *Event {
	if ev.Target == nil {
		return ev
	}
	var path []*Element
	for n := ev.Target; n != nil; n = n.parent {
		path = append(path, n)
	}
	for _, n := range path {
		listeners := n.listeners[ev.Type]
		if len(listeners) == 0 {
			continue
		}
		ev.Current = n
		for _, fn := range listeners {
			fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	ev.Current = nil
	return ev
}
