package dialog

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/logging"
	"github.com/kpumuk/smalltalk/internal/mathutil"
)

// Alert shows a message with a single OK button.
func Alert(surface Surface, title, message string, opts ...Option) *Handle {
	o := newOptions(opts)
	return Open(surface, title, message, nil, buttonsOr(o.buttons, ButtonsOK), opts...)
}

// Confirm asks the user to accept or dismiss a message.
func Confirm(surface Surface, title, message string, opts ...Option) *Handle {
	o := newOptions(opts)
	return Open(surface, title, message, nil, buttonsOr(o.buttons, ButtonsOKCancel), opts...)
}

// Prompt asks the user for a value, starting from value. The handle resolves
// with the entered value.
func Prompt(surface Surface, title, message, value string, opts ...Option) *Handle {
	o := newOptions(opts)
	return Open(surface, title, message, InputFragment(o.inputType, value), buttonsOr(o.buttons, ButtonsOKCancel), opts...)
}

func buttonsOr(buttons, fallback Buttons) Buttons {
	if len(buttons) == 0 {
		return fallback
	}
	return buttons
}

// ProgressHandle is the completion handle of a progress dialog.
type ProgressHandle struct {
	*Handle
}

// Progress shows a progress indicator with an Abort button. The handle
// resolves when progress reaches 100 and rejects when the user aborts.
func Progress(surface Surface, title, message string, opts ...Option) *ProgressHandle {
	h := Open(surface, title, message, ProgressFragment(), ButtonsAbort, opts...)
	for _, el := range surface.Find(h.Dialog(), NameCancel) {
		surface.Focus(el)
	}
	return &ProgressHandle{Handle: h}
}

// SetProgress updates the indicator and counter to percent, clamped to
// 0..100. At 100 the dialog is removed and the handle resolves with no value.
func (h *ProgressHandle) SetProgress(percent int) {
	percent = mathutil.Clamp(percent, 0, 100)
	root := h.Dialog()
	if bar := root.Query(NameProgress); bar != nil {
		bar.Progress = percent
	}
	if counter := root.Query(NameCounter); counter != nil {
		counter.Text = strconv.Itoa(percent) + "%"
	}
	logging.Debug("progress updated", zap.Int("level", root.Level), zap.Int("percent", percent))

	if percent == 100 {
		h.inst.remove()
		h.inst.resolve("", "", false)
	}
}

// Percent returns the current indicator value.
func (h *ProgressHandle) Percent() int {
	if bar := h.Dialog().Query(NameProgress); bar != nil {
		return bar.Progress
	}
	return 0
}
