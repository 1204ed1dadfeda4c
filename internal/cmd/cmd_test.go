package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/kpumuk/smalltalk/internal/config"
	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/feed"
	"github.com/kpumuk/smalltalk/internal/ui"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
	// apply runs each message against the dialog, as the host would.
	apply bool
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	if !r.apply {
		return
	}
	switch msg := msg.(type) {
	case ui.ProgressMsg:
		msg.Handle.SetProgress(msg.Percent)
	case ui.RemoveMsg:
		msg.Handle.Remove()
	}
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	got := buildVersion("1.2.3", "abc123", "2026-01-02", "ci")
	for _, want := range []string{"1.2.3", "commit: abc123", "built at: 2026-01-02", "built by: ci", "goos: "} {
		if !strings.Contains(got, want) {
			t.Fatalf("buildVersion() = %q, want it to contain %q", got, want)
		}
	}

	if got := buildVersion("dev", "", "", ""); strings.Contains(got, "commit:") {
		t.Fatalf("buildVersion() = %q, want no commit line", got)
	}
}

func TestParseButtons(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		specs   []string
		want    dialog.Buttons
		wantErr bool
	}{
		"empty": {
			want: dialog.Buttons{},
		},
		"key and label": {
			specs: []string{"yes=Yes please", "no=No"},
			want:  dialog.Buttons{{Key: "yes", Label: "Yes please"}, {Key: "no", Label: "No"}},
		},
		"key only": {
			specs: []string{"retry"},
			want:  dialog.Buttons{{Key: "retry", Label: "retry"}},
		},
		"label with equals": {
			specs: []string{"eq=a=b"},
			want:  dialog.Buttons{{Key: "eq", Label: "a=b"}},
		},
		"empty key": {
			specs:   []string{"=Label"},
			wantErr: true,
		},
		"reserved key": {
			specs:   []string{"Close=Go away"},
			wantErr: true,
		},
		"duplicate key": {
			specs:   []string{"yes", "YES=Sure"},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := parseButtons(tc.specs)
			if tc.wantErr {
				if err == nil {
					t.Fatal("parseButtons() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseButtons() error = %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("parseButtons() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("button %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		outcome dialog.Outcome
		want    int
	}{
		"confirmed": {outcome: dialog.Outcome{Kind: dialog.Confirmed}, want: ExitOK},
		"closed":    {outcome: dialog.Outcome{Kind: dialog.Closed}, want: ExitOK},
		"dismissed": {outcome: dialog.Outcome{Kind: dialog.Dismissed, Err: dialog.ErrDismissed}, want: ExitDismissed},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tc.outcome); got != tc.want {
				t.Fatalf("exitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDialogOptionsUseConfiguredLabels(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Labels.OK = "Sure"
	cfg.Labels.Cancel = "Nope"
	s := &session{cfg: cfg}

	opts, err := s.dialogOptions(dialog.ButtonsOKCancel)
	if err != nil {
		t.Fatalf("dialogOptions() error = %v", err)
	}

	doc := dialog.NewDocument()
	h := dialog.Confirm(doc, "T", "M", append(opts, dialog.WithStack(dialog.NewStack(dialog.BaseLevel)))...)
	if got := h.Dialog().Query(dialog.NameOK).Label; got != "Sure" {
		t.Fatalf("ok label = %q, want %q", got, "Sure")
	}
	if got := h.Dialog().Query(dialog.NameCancel).Label; got != "Nope" {
		t.Fatalf("cancel label = %q, want %q", got, "Nope")
	}
}

func TestDialogOptionsRejectsBadButton(t *testing.T) {
	t.Parallel()

	s := &session{cfg: config.Default(), flags: flags{buttons: []string{"=oops"}}}
	if _, err := s.dialogOptions(dialog.ButtonsOK); err == nil {
		t.Fatal("dialogOptions() error = nil, want error")
	}
}

func TestFinish(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		open     func(doc *dialog.Document) *dialog.Handle
		settle   func(h *dialog.Handle)
		wantCode int
		wantOut  string
	}{
		"prompt prints value": {
			open: func(doc *dialog.Document) *dialog.Handle {
				return dialog.Prompt(doc, "T", "M", "value")
			},
			settle: func(h *dialog.Handle) {
				dialog.Dispatch(&dialog.Event{Type: dialog.EventClick, Target: h.Dialog().Query(dialog.NameOK)})
			},
			wantCode: ExitOK,
			wantOut:  "value\n",
		},
		"custom button prints key": {
			open: func(doc *dialog.Document) *dialog.Handle {
				return dialog.Alert(doc, "T", "M", dialog.WithButtons(dialog.Buttons{{Key: "retry", Label: "Retry"}}))
			},
			settle: func(h *dialog.Handle) {
				dialog.Dispatch(&dialog.Event{Type: dialog.EventClick, Target: h.Dialog().Query("retry")})
			},
			wantCode: ExitOK,
			wantOut:  "retry\n",
		},
		"dismissed prints nothing": {
			open: func(doc *dialog.Document) *dialog.Handle {
				return dialog.Confirm(doc, "T", "M")
			},
			settle: func(h *dialog.Handle) {
				dialog.Dispatch(&dialog.Event{Type: dialog.EventClick, Target: h.Dialog().Query(dialog.NameCancel)})
			},
			wantCode: ExitDismissed,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := dialog.NewDocument()
			h := tc.open(doc)
			tc.settle(h)

			s := &session{}
			var out bytes.Buffer
			if err := s.finish(&out, h); err != nil {
				t.Fatalf("finish() error = %v", err)
			}
			if s.code != tc.wantCode {
				t.Fatalf("code = %d, want %d", s.code, tc.wantCode)
			}
			if out.String() != tc.wantOut {
				t.Fatalf("output = %q, want %q", out.String(), tc.wantOut)
			}
		})
	}
}

func TestFinishUnsettled(t *testing.T) {
	t.Parallel()

	doc := dialog.NewDocument()
	h := dialog.Alert(doc, "T", "M")
	h.Remove()

	s := &session{}
	if err := s.finish(&bytes.Buffer{}, h); !errors.Is(err, errNoAnswer) {
		t.Fatalf("finish() error = %v, want %v", err, errNoAnswer)
	}
}

func TestDriveProgress(t *testing.T) {
	t.Parallel()

	t.Run("completes", func(t *testing.T) {
		t.Parallel()

		doc := dialog.NewDocument()
		h := dialog.Progress(doc, "Copying", "wait")
		p := &recordingSender{apply: true}
		done := make(chan error, 1)

		driveProgress(context.Background(), feed.NewReader(strings.NewReader("10\n55%\n100\n")), h, p, done)

		if err := <-done; err != nil {
			t.Fatalf("feed error = %v", err)
		}
		if len(p.msgs) != 3 {
			t.Fatalf("sent %d messages, want 3", len(p.msgs))
		}
		s := &session{}
		if err := s.finishProgress(&bytes.Buffer{}, h, done); err != nil {
			t.Fatalf("finishProgress() error = %v", err)
		}
		if s.code != ExitOK {
			t.Fatalf("code = %d, want %d", s.code, ExitOK)
		}
	})

	t.Run("ends early", func(t *testing.T) {
		t.Parallel()

		doc := dialog.NewDocument()
		h := dialog.Progress(doc, "Copying", "wait")
		p := &recordingSender{apply: true}
		done := make(chan error, 1)

		driveProgress(context.Background(), feed.NewReader(strings.NewReader("10\n50\n")), h, p, done)

		last := p.msgs[len(p.msgs)-1]
		if _, ok := last.(ui.RemoveMsg); !ok {
			t.Fatalf("last message = %T, want ui.RemoveMsg", last)
		}
		if h.Settled() {
			t.Fatal("failed feed should not settle the dialog")
		}
		if h.Percent() != 50 {
			t.Fatalf("Percent() = %d, want 50", h.Percent())
		}

		s := &session{}
		err := s.finishProgress(&bytes.Buffer{}, h, done)
		if !errors.Is(err, feed.ErrIncomplete) {
			t.Fatalf("finishProgress() error = %v, want %v", err, feed.ErrIncomplete)
		}
	})

	t.Run("cancelled feed leaves dialog alone", func(t *testing.T) {
		t.Parallel()

		doc := dialog.NewDocument()
		h := dialog.Progress(doc, "Copying", "wait")
		p := &recordingSender{}
		done := make(chan error, 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		driveProgress(ctx, feed.NewReader(strings.NewReader("10\n")), h, p, done)

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Fatalf("feed error = %v, want %v", err, context.Canceled)
		}
		for _, msg := range p.msgs {
			if _, ok := msg.(ui.RemoveMsg); ok {
				t.Fatal("cancelled feed should not remove the dialog")
			}
		}
	})
}

func TestOpenFeedReader(t *testing.T) {
	t.Parallel()

	s := &session{cfg: config.Default()}
	f, closeFeed, err := s.openFeed(strings.NewReader("100\n"), "", "")
	if err != nil {
		t.Fatalf("openFeed() error = %v", err)
	}
	defer closeFeed()
	if _, ok := f.(*feed.Reader); !ok {
		t.Fatalf("openFeed() = %T, want *feed.Reader", f)
	}
}

func TestOpenFeedRedisValidation(t *testing.T) {
	t.Parallel()

	s := &session{cfg: config.Default()}
	if _, _, err := s.openFeed(nil, "://bad", "jobs"); err == nil {
		t.Fatal("openFeed() error = nil, want error for a bad url")
	}
}

func TestSetupAppliesConfigAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\nlabels:\n  ok: Go\nback_title: From file\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s := &session{}
	root := newRootCmd(s)
	if err := root.ParseFlags([]string{"--config", path, "--backtitle", "From flag"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if err := s.setup(root); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	t.Cleanup(s.teardown)

	if s.cfg.Labels.OK != "Go" {
		t.Fatalf("Labels.OK = %q, want %q", s.cfg.Labels.OK, "Go")
	}
	if s.cfg.Labels.Cancel != "Cancel" {
		t.Fatalf("Labels.Cancel = %q, want %q", s.cfg.Labels.Cancel, "Cancel")
	}
	if s.cfg.BackTitle != "From flag" {
		t.Fatalf("BackTitle = %q, want %q", s.cfg.BackTitle, "From flag")
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 9\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s := &session{}
	root := newRootCmd(s)
	if err := root.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if err := s.setup(root); err == nil {
		t.Fatal("setup() error = nil, want error")
	}
}
