package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/logging"
	"github.com/kpumuk/smalltalk/internal/ui"
)

var errNoAnswer = errors.New("dialog closed without an answer")

func newAlertCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "alert TITLE MESSAGE",
		Short: "Show a message with an OK button",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.dialogOptions(dialog.ButtonsOK)
			if err != nil {
				return err
			}
			doc := dialog.NewDocument()
			h := dialog.Alert(doc, args[0], args[1], opts...)
			return s.run(cmd.OutOrStdout(), doc, h)
		},
	}
}

func newConfirmCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm TITLE MESSAGE",
		Short: "Ask to accept or dismiss a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.dialogOptions(dialog.ButtonsOKCancel)
			if err != nil {
				return err
			}
			doc := dialog.NewDocument()
			h := dialog.Confirm(doc, args[0], args[1], opts...)
			return s.run(cmd.OutOrStdout(), doc, h)
		},
	}
}

func newPromptCmd(s *session) *cobra.Command {
	var inputType string
	cmd := &cobra.Command{
		Use:   "prompt TITLE MESSAGE [VALUE]",
		Short: "Ask for a value and print it",
		Long: "Ask for a value and print it on stdout.\n\n" +
			"Input types: text, password, number, tel, email, date, color and shapes.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.dialogOptions(dialog.ButtonsOKCancel)
			if err != nil {
				return err
			}
			opts = append(opts, dialog.WithType(dialog.ParseInputType(inputType)))

			var value string
			if len(args) > 2 {
				value = args[2]
			}
			doc := dialog.NewDocument()
			h := dialog.Prompt(doc, args[0], args[1], value, opts...)
			return s.run(cmd.OutOrStdout(), doc, h)
		},
	}
	cmd.Flags().StringVarP(&inputType, "type", "t", string(dialog.TypeText), "input type")
	return cmd
}

// parseButtons parses key=Label pairs. A pair without a label uses its key
// as the label. Keys are compared case-insensitively.
func parseButtons(specs []string) (dialog.Buttons, error) {
	buttons := make(dialog.Buttons, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key, label, found := strings.Cut(spec, "=")
		key = strings.TrimSpace(key)
		lower := strings.ToLower(key)
		switch {
		case key == "":
			return nil, fmt.Errorf("parse button %q: empty key", spec)
		case dialog.Reserved(dialog.Name(lower)):
			return nil, fmt.Errorf("parse button %q: reserved key %q", spec, lower)
		case seen[lower]:
			return nil, fmt.Errorf("parse button %q: duplicate key %q", spec, lower)
		}
		seen[lower] = true
		if !found || label == "" {
			label = key
		}
		buttons = append(buttons, dialog.Button{Key: dialog.Name(key), Label: label})
	}
	return buttons, nil
}

// dialogOptions returns the options shared by alert, confirm and prompt.
// Without --button flags the defaults apply with configured captions.
func (s *session) dialogOptions(defaults dialog.Buttons) ([]dialog.Option, error) {
	buttons, err := parseButtons(s.flags.buttons)
	if err != nil {
		return nil, err
	}
	if len(buttons) == 0 {
		buttons = s.labeled(defaults)
	}

	opts := []dialog.Option{dialog.WithButtons(buttons)}
	if s.flags.noCancel {
		opts = append(opts, dialog.WithoutCancel())
	}
	return opts, nil
}

// labeled applies the configured captions to a default button set.
func (s *session) labeled(buttons dialog.Buttons) dialog.Buttons {
	out := make(dialog.Buttons, len(buttons))
	for i, btn := range buttons {
		if s.cfg != nil {
			switch btn.Key {
			case dialog.NameOK:
				btn.Label = s.cfg.Labels.OK
			case dialog.NameCancel:
				btn.Label = s.cfg.Labels.Cancel
			}
		}
		out[i] = btn
	}
	return out
}

func (s *session) newProgram(doc *dialog.Document, input io.Reader) *tea.Program {
	var backTitle string
	if s.cfg != nil {
		backTitle = s.cfg.BackTitle
	}
	opts := []tea.ProgramOption{tea.WithOutput(os.Stderr)}
	if input != nil {
		opts = append(opts, tea.WithInput(input))
	}
	return tea.NewProgram(ui.New(doc, ui.WithBackTitle(backTitle)), opts...)
}

// run shows the dialogs of doc until none is left and reports h.
func (s *session) run(out io.Writer, doc *dialog.Document, h *dialog.Handle) error {
	if _, err := s.newProgram(doc, nil).Run(); err != nil {
		return fmt.Errorf("run smalltalk: %w", err)
	}
	return s.finish(out, h)
}

// finish records the exit status for h and prints what it answered: the
// value of a prompt, or the key of a custom button.
func (s *session) finish(out io.Writer, h *dialog.Handle) error {
	o, ok := h.Outcome()
	if !ok {
		return errNoAnswer
	}
	s.code = exitCode(o)
	logging.Debug("dialog finished",
		zap.Stringer("outcome", o.Kind),
		zap.String("button", string(o.Button)),
		zap.Int("exit", s.code),
	)

	if o.Kind != dialog.Confirmed {
		return nil
	}
	switch {
	case o.HasValue:
		_, err := fmt.Fprintln(out, o.Value)
		return err
	case isCustomButton(o.Button):
		_, err := fmt.Fprintln(out, o.Button)
		return err
	}
	return nil
}

func exitCode(o dialog.Outcome) int {
	if o.Kind == dialog.Dismissed {
		return ExitDismissed
	}
	return ExitOK
}

func isCustomButton(name dialog.Name) bool {
	switch name {
	case "", dialog.NameOK, dialog.NameCancel, dialog.NameClose, dialog.NameInput:
		return false
	}
	return true
}
