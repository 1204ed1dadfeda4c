package dialog

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func newTestDocument(t *testing.T) (*Document, *Stack) {
	t.Helper()
	return NewDocument(), NewStack(BaseLevel)
}

func click(t *testing.T, el *Element) *Event {
	t.Helper()
	if el == nil {
		t.Fatal("click on nil element")
	}
	return Dispatch(&Event{Type: EventClick, Target: el})
}

func press(t *testing.T, doc *Document, key Key, shift bool) *Event {
	t.Helper()
	target := doc.ActiveElement()
	if target == nil {
		target = doc.Top()
	}
	if target == nil {
		t.Fatal("no dialog to receive key")
	}
	return Dispatch(&Event{Type: EventKeyDown, Key: key, Shift: shift, Target: target})
}

func focusedName(t *testing.T, doc *Document) Name {
	t.Helper()
	active := doc.ActiveElement()
	if active == nil {
		return ""
	}
	return active.Name
}

func outcome(t *testing.T, h *Handle) Outcome {
	t.Helper()
	o, ok := h.Outcome()
	if !ok {
		t.Fatal("expected handle to be settled")
	}
	return o
}

func TestAlertOKResolvesWithoutValue(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Alert(doc, "T", "M", WithStack(stack))

	if got := focusedName(t, doc); got != NameOK {
		t.Fatalf("focused = %q, want %q", got, NameOK)
	}

	click(t, doc.Find(h.Dialog(), NameOK)[0])

	o := outcome(t, h)
	if o.Kind != Confirmed || o.HasValue || o.Err != nil {
		t.Fatalf("outcome = %+v, want confirmed without value", o)
	}
	if o.Button != NameOK {
		t.Fatalf("button = %q, want %q", o.Button, NameOK)
	}
	if h.Dialog().Parent() != nil {
		t.Fatal("expected dialog to be detached")
	}

	value, err := h.Wait(context.Background())
	if err != nil || value != "" {
		t.Fatalf("Wait() = %q, %v; want empty, nil", value, err)
	}
}

func TestConfirmEscape(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts     []Option
		wantKind OutcomeKind
		wantErr  error
	}{
		"rejects":        {wantKind: Dismissed, wantErr: ErrDismissed},
		"without cancel": {opts: []Option{WithoutCancel()}, wantKind: Closed},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, stack := newTestDocument(t)
			h := Confirm(doc, "T", "M", append(tc.opts, WithStack(stack))...)

			press(t, doc, KeyEscape, false)

			o := outcome(t, h)
			if o.Kind != tc.wantKind {
				t.Fatalf("kind = %v, want %v", o.Kind, tc.wantKind)
			}
			if !errors.Is(o.Err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", o.Err, tc.wantErr)
			}
			if len(doc.Dialogs()) != 0 {
				t.Fatal("expected dialog to be removed")
			}
		})
	}
}

func TestDismissControls(t *testing.T) {
	t.Parallel()

	for _, name := range []Name{NameCancel, NameClose} {
		t.Run(string(name), func(t *testing.T) {
			t.Parallel()
			doc, stack := newTestDocument(t)
			h := Confirm(doc, "T", "M", WithStack(stack))

			click(t, doc.Find(h.Dialog(), name)[0])

			_, err := h.Wait(context.Background())
			if !errors.Is(err, ErrDismissed) {
				t.Fatalf("Wait() error = %v, want %v", err, ErrDismissed)
			}
			if got := outcome(t, h).Button; got != name {
				t.Fatalf("button = %q, want %q", got, name)
			}
		})
	}
}

func TestPromptPreselectsAndResolvesEditedValue(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Prompt(doc, "T", "M", "hello", WithStack(stack))

	input := doc.Find(h.Dialog(), NameInput)[0]
	if input.Value != "hello" {
		t.Fatalf("value = %q, want %q", input.Value, "hello")
	}
	if start, end := input.SelectionRange(); start != 0 || end != 5 {
		t.Fatalf("selection = [%d,%d), want [0,5)", start, end)
	}
	if got := focusedName(t, doc); got != NameInput {
		t.Fatalf("focused = %q, want %q", got, NameInput)
	}

	input.SetValue("world")
	click(t, doc.Find(h.Dialog(), NameOK)[0])

	value, err := h.Wait(context.Background())
	if err != nil || value != "world" {
		t.Fatalf("Wait() = %q, %v; want %q, nil", value, err, "world")
	}
}

func TestPromptSelectionDependsOnType(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ      InputType
		selected bool
	}{
		"text":     {typ: TypeText, selected: true},
		"password": {typ: TypePassword, selected: true},
		"tel":      {typ: TypeTel, selected: true},
		"date":     {typ: TypeDate},
		"email":    {typ: TypeEmail},
		"number":   {typ: TypeNumber},
		"color":    {typ: TypeColor},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, stack := newTestDocument(t)
			h := Prompt(doc, "T", "M", "value", WithType(tc.typ), WithStack(stack))

			input := doc.Find(h.Dialog(), NameInput)[0]
			if input.Type != tc.typ {
				t.Fatalf("type = %q, want %q", input.Type, tc.typ)
			}
			if got := input.FullySelected(); got != tc.selected {
				t.Fatalf("FullySelected() = %v, want %v", got, tc.selected)
			}
		})
	}
}

func TestPromptUnknownTypeFallsBackToText(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Prompt(doc, "T", "M", "", WithType("range"), WithStack(stack))

	if got := doc.Find(h.Dialog(), NameInput)[0].Type; got != TypeText {
		t.Fatalf("type = %q, want %q", got, TypeText)
	}
}

func TestEnterActivatesFocusedElement(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tabs     int
		wantKind OutcomeKind
		wantVal  string
		wantBtn  Name
	}{
		"input":  {tabs: 0, wantKind: Confirmed, wantVal: "abc", wantBtn: NameInput},
		"ok":     {tabs: 1, wantKind: Confirmed, wantVal: "abc", wantBtn: NameOK},
		"cancel": {tabs: 2, wantKind: Dismissed, wantBtn: NameCancel},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, stack := newTestDocument(t)
			h := Prompt(doc, "T", "M", "abc", WithStack(stack))

			for range tc.tabs {
				press(t, doc, KeyTab, false)
			}
			ev := press(t, doc, KeyEnter, false)
			if !ev.DefaultPrevented() {
				t.Fatal("expected enter default to be prevented")
			}

			o := outcome(t, h)
			if o.Kind != tc.wantKind || o.Value != tc.wantVal || o.Button != tc.wantBtn {
				t.Fatalf("outcome = %+v, want kind %v value %q button %q", o, tc.wantKind, tc.wantVal, tc.wantBtn)
			}
		})
	}
}

func TestTabCyclesRing(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack))

	if ring := h.Ring(); !slices.Equal(ring, []Name{NameOK, NameCancel}) {
		t.Fatalf("ring = %v, want [ok cancel]", ring)
	}

	ev := press(t, doc, KeyTab, false)
	if !ev.DefaultPrevented() {
		t.Fatal("expected tab default to be prevented")
	}
	if got := focusedName(t, doc); got != NameCancel {
		t.Fatalf("after tab focused = %q, want %q", got, NameCancel)
	}
	press(t, doc, KeyTab, false)
	if got := focusedName(t, doc); got != NameOK {
		t.Fatalf("after wrap focused = %q, want %q", got, NameOK)
	}
}

func TestShiftTabStepsBackward(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Prompt(doc, "T", "M", "", WithStack(stack))

	if ring := h.Ring(); !slices.Equal(ring, []Name{NameInput, NameOK, NameCancel}) {
		t.Fatalf("ring = %v, want [input ok cancel]", ring)
	}

	want := []Name{NameCancel, NameOK, NameInput}
	for i, name := range want {
		press(t, doc, KeyTab, true)
		if got := focusedName(t, doc); got != name {
			t.Fatalf("step %d focused = %q, want %q", i, got, name)
		}
	}
}

func TestArrowKeysToggleButtons(t *testing.T) {
	t.Parallel()

	for _, key := range []Key{KeyLeft, KeyRight, KeyUp, KeyDown} {
		t.Run(key.String(), func(t *testing.T) {
			t.Parallel()
			doc, stack := newTestDocument(t)
			Confirm(doc, "T", "M", WithStack(stack))

			ev := press(t, doc, key, false)
			if ev.DefaultPrevented() {
				t.Fatal("arrow keys must keep their default")
			}
			if got := focusedName(t, doc); got != NameCancel {
				t.Fatalf("focused = %q, want %q", got, NameCancel)
			}
			press(t, doc, key, false)
			if got := focusedName(t, doc); got != NameOK {
				t.Fatalf("focused = %q, want %q", got, NameOK)
			}
		})
	}
}

func TestArrowKeysIgnoredOnInputAndSingleButton(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	Prompt(doc, "T", "M", "", WithStack(stack))
	press(t, doc, KeyLeft, false)
	if got := focusedName(t, doc); got != NameInput {
		t.Fatalf("prompt focused = %q, want %q", got, NameInput)
	}

	doc2, stack2 := newTestDocument(t)
	Alert(doc2, "T", "M", WithStack(stack2))
	press(t, doc2, KeyRight, false)
	if got := focusedName(t, doc2); got != NameOK {
		t.Fatalf("alert focused = %q, want %q", got, NameOK)
	}
}

func TestSettlesExactlyOnce(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack))
	ok := doc.Find(h.Dialog(), NameOK)[0]
	cancel := doc.Find(h.Dialog(), NameCancel)[0]

	click(t, ok)
	click(t, cancel)
	Dispatch(&Event{Type: EventKeyDown, Key: KeyEscape, Target: h.Dialog()})

	if h.Resolve("late", true) {
		t.Fatal("Resolve after settlement must not take effect")
	}
	o := outcome(t, h)
	if o.Kind != Confirmed || o.Button != NameOK {
		t.Fatalf("outcome = %+v, want first (ok) settlement", o)
	}
}

func TestCellTrySettle(t *testing.T) {
	t.Parallel()

	c := NewCell()
	if c.State() != Pending {
		t.Fatal("new cell must be pending")
	}
	if !c.TrySettle(Outcome{Value: "a"}) {
		t.Fatal("first TrySettle must succeed")
	}
	if c.TrySettle(Outcome{Value: "b"}) {
		t.Fatal("second TrySettle must fail")
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after settlement")
	}
	if o, _ := c.Outcome(); o.Value != "a" {
		t.Fatalf("value = %q, want %q", o.Value, "a")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestClicksDoNotReachPage(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	reached := 0
	for _, typ := range []EventType{EventClick, EventContextMenu, EventKeyDown} {
		doc.Body().AddEventListener(typ, func(*Event) { reached++ })
	}

	h := Prompt(doc, "T", "M\nsecond line", "", WithStack(stack))
	press(t, doc, KeyTab, false)
	if got := focusedName(t, doc); got != NameOK {
		t.Fatalf("focused = %q, want %q", got, NameOK)
	}

	header := h.Dialog().Children()[1]
	Dispatch(&Event{Type: EventContextMenu, Target: header})
	if got := focusedName(t, doc); got != NameInput {
		t.Fatalf("refocused = %q, want %q", got, NameInput)
	}
	click(t, header)
	press(t, doc, KeyOther, false)

	if reached != 0 {
		t.Fatalf("page received %d events, want 0", reached)
	}
	if h.Settled() {
		t.Fatal("background clicks must not settle the dialog")
	}
}

func TestStackingLevels(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	first := Alert(doc, "first", "M", WithStack(stack))
	second := Confirm(doc, "second", "M", WithStack(stack))

	if second.Level() <= first.Level() {
		t.Fatalf("second level %d must be above first %d", second.Level(), first.Level())
	}
	if doc.Top() != second.Dialog() {
		t.Fatal("second dialog must be on top")
	}

	second.Remove()
	third := Alert(doc, "third", "M", WithStack(stack))
	if third.Level() <= second.Level() {
		t.Fatalf("levels must never be reused: third %d, second %d", third.Level(), second.Level())
	}
	if got := doc.Dialogs(); len(got) != 2 || got[0] != first.Dialog() || got[1] != third.Dialog() {
		t.Fatal("dialogs must be ordered by level")
	}
}

func TestDefaultStackIsShared(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	a := Alert(doc, "a", "M")
	b := Alert(doc, "b", "M")
	if b.Level() <= a.Level() || a.Level() <= BaseLevel {
		t.Fatalf("levels a=%d b=%d must increase above %d", a.Level(), b.Level(), BaseLevel)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Alert(doc, "T", "M", WithStack(stack))

	if !h.Remove() {
		t.Fatal("first Remove must detach")
	}
	if h.Remove() {
		t.Fatal("second Remove must be a no-op")
	}
	if h.Settled() {
		t.Fatal("Remove must not settle")
	}

	h2 := Alert(doc, "T", "M", WithStack(stack))
	click(t, doc.Find(h2.Dialog(), NameOK)[0])
	if h2.Remove() {
		t.Fatal("Remove after settlement must be a no-op")
	}
}

func TestCustomButtons(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack), WithButtons(Buttons{
		{Key: "Retry", Label: "Retry"},
		{Key: NameCancel, Label: "Give up"},
	}))

	if ring := h.Ring(); !slices.Equal(ring, []Name{"retry", NameCancel}) {
		t.Fatalf("ring = %v, want [retry cancel]", ring)
	}
	click(t, doc.Find(h.Dialog(), "retry")[0])
	if o := outcome(t, h); o.Kind != Confirmed || o.Button != "retry" {
		t.Fatalf("outcome = %+v, want confirmed by retry", o)
	}
}

func TestButtonKeysAreDeduplicated(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Open(doc, "T", "M", nil, Buttons{
		{Key: "yes", Label: "Yes"},
		{Key: "YES", Label: "Again"},
		{Key: NameClose, Label: "Close"},
		{Key: NameInput, Label: "Input"},
		{Key: NameOK, Label: "OK"},
	}, WithStack(stack))

	if ring := h.Ring(); !slices.Equal(ring, []Name{"yes", NameOK}) {
		t.Fatalf("ring = %v, want [yes ok]", ring)
	}
	var labels []string
	for _, el := range h.Dialog().Children() {
		for _, child := range el.Children() {
			if child.Kind == KindButton {
				labels = append(labels, child.Label)
			}
		}
	}
	if !slices.Equal(labels, []string{"Yes", "OK"}) {
		t.Fatalf("button labels = %v, want [Yes OK]", labels)
	}

	click(t, doc.Find(h.Dialog(), "yes")[0])
	if o := outcome(t, h); o.Kind != Confirmed || o.Button != "yes" {
		t.Fatalf("outcome = %+v, want confirmed by yes", o)
	}
	if len(doc.Dialogs()) != 0 {
		t.Fatal("expected dialog to be removed")
	}
}

func TestCloseMarkKeepsItsKey(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack), WithButtons(Buttons{
		{Key: "retry", Label: "Retry"},
		{Key: "Close", Label: "Close"},
	}))

	if ring := h.Ring(); !slices.Equal(ring, []Name{"retry"}) {
		t.Fatalf("ring = %v, want [retry]", ring)
	}
	click(t, doc.Find(h.Dialog(), NameClose)[0])
	if o := outcome(t, h); o.Kind != Dismissed || o.Button != NameClose {
		t.Fatalf("outcome = %+v, want dismissed by close", o)
	}
}

func TestShapesPicker(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Prompt(doc, "T", "Pick", "", WithType(TypeShapes), WithStack(stack))

	if got := focusedName(t, doc); got != NameOK {
		t.Fatalf("focused = %q, want %q", got, NameOK)
	}
	radios := doc.Find(h.Dialog(), NameInput)[0].Radios()
	if len(radios) != len(Shapes) {
		t.Fatalf("radios = %d, want %d", len(radios), len(Shapes))
	}
	radios[3].Check()
	radios[5].Check()
	if radios[3].Checked {
		t.Fatal("checking a radio must clear its siblings")
	}

	press(t, doc, KeyEnter, false)
	if o := outcome(t, h); o.Value != "circle" || !o.HasValue {
		t.Fatalf("outcome = %+v, want circle", o)
	}
}

func TestEnterWithoutFocusIsIgnored(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Confirm(doc, "T", "M", WithStack(stack))
	doc.Focus(nil)

	Dispatch(&Event{Type: EventKeyDown, Key: KeyEnter, Target: h.Dialog()})
	if h.Settled() {
		t.Fatal("enter without a focused control must not settle")
	}
	Dispatch(&Event{Type: EventKeyDown, Key: KeyTab, Target: h.Dialog()})
	if got := focusedName(t, doc); got != NameOK {
		t.Fatalf("focused = %q, want %q", got, NameOK)
	}
}

func TestFindPreservesInputOrder(t *testing.T) {
	t.Parallel()

	doc, stack := newTestDocument(t)
	h := Prompt(doc, "T", "M", "", WithStack(stack))

	got := doc.Find(h.Dialog(), NameCancel, NameProgress, NameInput, NameOK)
	names := make([]Name, 0, len(got))
	for _, el := range got {
		names = append(names, el.Name)
	}
	if !slices.Equal(names, []Name{NameCancel, NameInput, NameOK}) {
		t.Fatalf("Find() = %v, want [cancel input ok]", names)
	}
}
