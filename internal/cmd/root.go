// Package cmd provides the entrypoint and CLI command configuration for the
// smalltalk application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/config"
	"github.com/kpumuk/smalltalk/internal/logging"
)

// Exit statuses reported by Execute.
const (
	ExitOK        = 0
	ExitDismissed = 1
	ExitError     = 2
)

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// flags holds the values of the persistent flags.
type flags struct {
	buttons    []string
	noCancel   bool
	backTitle  string
	configPath string
	logLevel   string
	logFile    string
	cpuprofile string
}

// session is the state shared by every subcommand of one invocation.
type session struct {
	flags   flags
	cfg     *config.Config
	code    int
	profile *os.File
}

// Execute runs the smalltalk CLI and returns the process exit status.
func Execute(version, commit, date, builtBy string) int {
	s := &session{}
	defer s.teardown()

	rootCmd := newRootCmd(s)
	rootCmd.Version = buildVersion(version, commit, date, builtBy)
	rootCmd.SetVersionTemplate(`smalltalk {{printf "version %s\n" .Version}}`)

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
	if err != nil {
		logging.Error("command failed", zap.Error(err))
		return ExitError
	}
	return s.code
}

func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smalltalk",
		Short: "Modal dialogs for shell scripts.",
		Long: "Show alert, confirm, prompt and progress dialogs in the terminal.\n\n" +
			"Exit status is 0 when the dialog is accepted, 1 when it is dismissed " +
			"and 2 on errors.",
		Args: cobra.NoArgs,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVar(&s.flags.buttons, "button", nil, "button as key=Label, repeat for more buttons")
	pf.BoolVar(&s.flags.noCancel, "no-cancel", false, "treat dismissal as a silent close (exit 0)")
	pf.StringVar(&s.flags.backTitle, "backtitle", "", "text drawn in the top-left corner of the screen")
	pf.StringVar(&s.flags.configPath, "config", "", "path to the config file")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&s.flags.logFile, "log-file", "", "file to write logs to")
	pf.StringVar(&s.flags.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	pf.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "back-title":
			name = "backtitle"
		case "nocancel":
			name = "no-cancel"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return s.setup(cmd)
	}

	rootCmd.AddCommand(
		newAlertCmd(s),
		newConfirmCmd(s),
		newPromptCmd(s),
		newProgressCmd(s),
	)

	return rootCmd
}

// setup loads the config file, applies flag overrides and starts logging.
func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(s.flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("backtitle") {
		cfg.BackTitle = s.flags.backTitle
	}
	if f.Changed("log-level") {
		cfg.LogLevel = s.flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = s.flags.logFile
	}
	s.cfg = cfg

	if err := logging.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	if s.flags.cpuprofile != "" {
		file, err := os.Create(s.flags.cpuprofile)
		if err != nil {
			return fmt.Errorf("create cpuprofile file: %w", err)
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			_ = file.Close()
			return fmt.Errorf("start cpu profile: %w", err)
		}
		s.profile = file
	}

	logging.Debug("starting", zap.String("command", cmd.Name()))
	return nil
}

func (s *session) teardown() {
	if s.profile != nil {
		pprof.StopCPUProfile()
		_ = s.profile.Close()
		s.profile = nil
	}
	logging.Sync()
}
