package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/dialog"
	"github.com/kpumuk/smalltalk/internal/feed"
	"github.com/kpumuk/smalltalk/internal/logging"
	"github.com/kpumuk/smalltalk/internal/ui"
)

var errTerminalFeed = errors.New("progress values are read from stdin: pipe them in or pass --channel")

func newProgressCmd(s *session) *cobra.Command {
	var redisURL, channel string
	cmd := &cobra.Command{
		Use:   "progress TITLE MESSAGE",
		Short: "Show a progress bar fed from stdin or Redis",
		Long: "Show a progress bar until it reaches 100%.\n\n" +
			"Values (42 or 42%) are read one per line from stdin, or one per message " +
			"from a Redis pub/sub channel with --channel. The dialog fails with exit " +
			"status 2 when the input ends early.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFeed, err := s.openFeed(cmd.InOrStdin(), redisURL, channel)
			if err != nil {
				return err
			}
			defer closeFeed()

			// The keyboard is on the terminal when stdin carries the feed.
			var input io.Reader
			if channel == "" {
				tty, err := openTTY()
				if err != nil {
					return err
				}
				defer func() {
					_ = tty.Close()
				}()
				input = tty
			}

			var opts []dialog.Option
			if s.flags.noCancel {
				opts = append(opts, dialog.WithoutCancel())
			}
			doc := dialog.NewDocument()
			h := dialog.Progress(doc, args[0], args[1], opts...)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := s.newProgram(doc, input)
			done := make(chan error, 1)
			go driveProgress(ctx, f, h, p, done)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run smalltalk: %w", err)
			}
			cancel()

			return s.finishProgress(cmd.OutOrStdout(), h, done)
		},
	}
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL (defaults to redis_url from the config file)")
	cmd.Flags().StringVar(&channel, "channel", "", "redis pub/sub channel to read progress from")
	return cmd
}

// openFeed picks the Redis feed when a channel is given and stdin otherwise.
func (s *session) openFeed(in io.Reader, redisURL, channel string) (feed.Feed, func(), error) {
	if channel == "" {
		if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
			return nil, nil, errTerminalFeed
		}
		return feed.NewReader(in), func() {}, nil
	}

	if redisURL == "" && s.cfg != nil {
		redisURL = s.cfg.RedisURL
	}
	r, err := feed.NewRedis(redisURL, channel)
	if err != nil {
		return nil, nil, fmt.Errorf("create redis feed: %w", err)
	}
	logging.Info("reading progress from redis",
		zap.String("url", r.DisplayRedisURL()),
		zap.String("channel", channel),
	)
	return r, func() {
		_ = r.Close()
	}, nil
}

// sender delivers messages to a running program.
type sender interface {
	Send(msg tea.Msg)
}

// driveProgress forwards every value of f to the progress dialog h. The feed
// result is written to done before a failed dialog is removed, so it is
// available once the program stops.
func driveProgress(ctx context.Context, f feed.Feed, h *dialog.ProgressHandle, p sender, done chan<- error) {
	err := f.Run(ctx, func(percent int) {
		p.Send(ui.ProgressMsg{Handle: h, Percent: percent})
	})
	done <- err
	if err != nil && ctx.Err() == nil {
		logging.Warn("progress feed failed", zap.Error(err))
		p.Send(ui.RemoveMsg{Handle: h.Handle})
	}
}

// finishProgress reports a progress dialog. An unsettled dialog was removed
// because its feed failed.
func (s *session) finishProgress(out io.Writer, h *dialog.ProgressHandle, done <-chan error) error {
	if h.Settled() {
		return s.finish(out, h.Handle)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("progress feed: %w", err)
	}
	return errNoAnswer
}

func openTTY() (*os.File, error) {
	name := "/dev/tty"
	if runtime.GOOS == "windows" {
		name = "CONIN$"
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return f, nil
}
