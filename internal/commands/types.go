// Package commands implements the dispatch tables behind the interactive shell.
//
// A Registry maps command names to handler closures. The shell reads a line,
// hands it to the active registry's Dispatch, and acts on the returned Action:
// stay, enter the create sub-shell, return to the main table, or exit.
//
// Handlers close over a Session, which carries the injected service, the
// renderer and the draft module being edited in the create sub-shell. Nothing
// here reads the terminal directly, so every table can be driven from tests.
package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yamsproject/yms/internal/errors"
)

// Action tells the shell what to do after a command ran
type Action int

const (
	// ActionContinue keeps reading from the current table
	ActionContinue Action = iota
	// ActionEnter switches to the create sub-shell
	ActionEnter
	// ActionLeave returns from the sub-shell to the main table
	ActionLeave
	// ActionExit ends the session
	ActionExit
)

// Handler runs a command with the text that followed its name
type Handler func(ctx context.Context, args string) (Action, error)

// Completer returns candidates for the partially typed argument text
type Completer func(args string) []string

// Command is one entry of a dispatch table
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
	Complete    Completer
	hidden      bool
}

// Registry is a dispatch table of commands
type Registry struct {
	name     string
	commands map[string]*Command
	out      io.Writer
}

// NewRegistry creates an empty table. Help output is written to out.
func NewRegistry(name string, out io.Writer) *Registry {
	r := &Registry{
		name:     name,
		commands: make(map[string]*Command),
		out:      out,
	}
	r.Register(&Command{
		Name:        "help",
		Usage:       "help [command]",
		Description: "List commands or show the usage of one",
		Handler:     r.help,
		Complete:    r.completeNames,
	})
	return r
}

// Name returns the table name
func (r *Registry) Name() string {
	return r.name
}

// Register adds a command, replacing any command with the same name
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Alias registers name as another spelling of target. Aliases are left out of help.
func (r *Registry) Alias(name, target string) {
	cmd, ok := r.commands[target]
	if !ok {
		return
	}
	alias := *cmd
	alias.Name = name
	alias.hidden = true
	r.commands[name] = &alias
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all command names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the command named by the first word of line. Blank input does
// nothing.
func (r *Registry) Dispatch(ctx context.Context, line string) (Action, error) {
	name, args := split(line)
	if name == "" {
		return ActionContinue, nil
	}

	cmd, exists := r.commands[name]
	if !exists {
		return ActionContinue, errors.CommandNotFoundError(name)
	}
	return cmd.Handler(ctx, args)
}

// Complete returns full-line completions for a partially typed line
func (r *Registry) Complete(line string) []string {
	name, args, hasArgs := strings.Cut(strings.TrimLeft(line, " "), " ")
	if !hasArgs {
		return r.completeNames(name)
	}

	cmd, exists := r.commands[name]
	if !exists || cmd.Complete == nil {
		return nil
	}

	var lines []string
	for _, candidate := range cmd.Complete(strings.TrimLeft(args, " ")) {
		lines = append(lines, name+" "+candidate)
	}
	return lines
}

// PrefixCompleter completes against a vocabulary by case-insensitive prefix.
// Matches keep the vocabulary's spelling.
func PrefixCompleter(vocabulary func() []string) Completer {
	return func(args string) []string {
		prefix := strings.ToLower(args)
		var matches []string
		for _, word := range vocabulary() {
			if strings.HasPrefix(strings.ToLower(word), prefix) {
				matches = append(matches, word)
			}
		}
		return matches
	}
}

func (r *Registry) completeNames(prefix string) []string {
	var matches []string
	for _, name := range r.List() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

func (r *Registry) help(_ context.Context, args string) (Action, error) {
	if args != "" {
		cmd, exists := r.commands[args]
		if !exists {
			return ActionContinue, errors.CommandNotFoundError(args)
		}
		fmt.Fprintf(r.out, "\nUsage: %s\n\n%s\n\n", cmd.Usage, cmd.Description)
		return ActionContinue, nil
	}

	fmt.Fprintln(r.out, "\nCommands")
	fmt.Fprintln(r.out, strings.Repeat("-", len("Commands")))
	for _, name := range r.List() {
		cmd := r.commands[name]
		if cmd.hidden {
			continue
		}
		fmt.Fprintf(r.out, "  %-14s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintln(r.out)
	return ActionContinue, nil
}

// split separates the command name from its argument text
func split(line string) (name, args string) {
	line = strings.TrimSpace(line)
	name, args, _ = strings.Cut(line, " ")
	return name, strings.TrimSpace(args)
}
