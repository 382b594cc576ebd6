// Package shell runs the interactive YMS prompt on top of the command tables.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"

	"github.com/yamsproject/yms/internal/commands"
	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/ui"
)

const (
	mainPrompt   = "[YMS] > "
	createPrompt = "[YMS::New Module] > "
)

// Options configures a Shell
type Options struct {
	HistoryFile string
	Version     string
	Verbose     bool
	Logger      *log.Logger
}

// Shell switches between the main table and the create sub-shell
type Shell struct {
	session *commands.Session
	main    *commands.Registry
	create  *commands.Registry
	active  *commands.Registry
	out     io.Writer
	errs    *errors.CLIErrorHandler
	opts    Options
}

// New creates a shell over session, writing command output to out
func New(session *commands.Session, out io.Writer, opts Options) *Shell {
	main := commands.MainCommands(session)
	return &Shell{
		session: session,
		main:    main,
		create:  commands.CreateCommands(session),
		active:  main,
		out:     out,
		errs:    errors.NewCLIErrorHandler(opts.Logger, opts.Verbose),
		opts:    opts,
	}
}

// Prompt returns the prompt of the active table
func (s *Shell) Prompt() string {
	if s.active == s.create {
		return createPrompt
	}
	return mainPrompt
}

// Execute runs one line of input and reports whether the session should end.
// Command errors are printed, never returned.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	action, err := s.active.Dispatch(ctx, line)
	if err != nil {
		fmt.Fprintln(s.out, s.errs.FormatError(err))
	}

	switch action {
	case commands.ActionEnter:
		s.active = s.create
		fmt.Fprintln(s.out, "\nSet each value with 'set <setting> <value>', then 'create'.")
		if err := s.session.Renderer.Settings(s.session.Draft()); err != nil {
			fmt.Fprintln(s.out, s.errs.FormatError(err))
		}
	case commands.ActionLeave:
		s.active = s.main
		fmt.Fprintln(s.out, ui.Banner(s.opts.Version))
	case commands.ActionExit:
		return true
	}
	return false
}

// Complete returns tab completions for the active table
func (s *Shell) Complete(line string) []string {
	return s.active.Complete(line)
}

// Run reads commands until exit, EOF or ctx is cancelled
func (s *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.Complete)

	if s.opts.HistoryFile != "" {
		if f, err := os.Open(s.opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer s.saveHistory(line)
	}

	fmt.Fprintln(s.out, ui.Banner(s.opts.Version))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := line.Prompt(s.Prompt())
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(s.out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input != "" {
			line.AppendHistory(input)
		}
		if s.Execute(ctx, input) {
			return nil
		}
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	f, err := os.Create(s.opts.HistoryFile)
	if err != nil {
		if s.opts.Logger != nil {
			s.opts.Logger.Warn("could not save history", "path", s.opts.HistoryFile, "err", err)
		}
		return
	}
	defer f.Close()

	if _, err := line.WriteHistory(f); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Warn("could not save history", "path", s.opts.HistoryFile, "err", err)
	}
}
