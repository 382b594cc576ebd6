package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
)

// CreateCommands builds the dispatch table of the create sub-shell. Settings
// persist across visits until a module is created.
func CreateCommands(s *Session) *Registry {
	r := NewRegistry("newmodule", s.Renderer.Writer())

	r.Register(&Command{
		Name:        "set",
		Usage:       "set [setting] [value]",
		Description: "Set a module setting, e.g. set role name My Module",
		Handler: func(_ context.Context, args string) (Action, error) {
			key, value, ok := models.MatchSetting(args)
			if !ok {
				return ActionContinue, errors.InvalidCommandError("set", fmt.Sprintf("unknown setting %q", args))
			}
			s.draft.Set(key, value)
			return ActionContinue, s.showSettings()
		},
		Complete: PrefixCompleter(settingKeys),
	})

	r.Register(&Command{
		Name:        "settings",
		Usage:       "settings",
		Description: "Show the current module settings",
		Handler: func(_ context.Context, _ string) (Action, error) {
			return ActionContinue, s.showSettings()
		},
	})

	r.Register(&Command{
		Name:        "form",
		Usage:       "form",
		Description: "Edit every setting in a form",
		Handler: func(ctx context.Context, _ string) (Action, error) {
			if s.Form == nil {
				return ActionContinue, errors.NewAppError(errors.ErrCodeNotImplemented, "Form editing is not available in this terminal.")
			}
			edited, submitted, err := s.Form(ctx, s.draft.Clone())
			if err != nil {
				return ActionContinue, err
			}
			if submitted {
				s.draft = edited
			}
			return ActionContinue, s.showSettings()
		},
	})

	r.Register(&Command{
		Name:        "create",
		Usage:       "create",
		Description: "Write the module skeleton to disk",
		Handler: func(ctx context.Context, _ string) (Action, error) {
			result, err := s.Service.Create(ctx, s.draft)
			if err != nil {
				return ActionContinue, err
			}
			root := s.Service.Storage().RootPath()
			if err := s.Renderer.Line(fmt.Sprintf("[+] Created %s at %s", result.Module.Path(), filepath.Join(root, result.Dir))); err != nil {
				return ActionContinue, err
			}
			s.draft = &models.Module{}
			return ActionContinue, nil
		},
	})

	r.Register(&Command{
		Name:        "main",
		Usage:       "main",
		Description: "Return to the main menu",
		Handler: func(_ context.Context, _ string) (Action, error) {
			return ActionLeave, nil
		},
	})

	r.Register(&Command{
		Name:        "exit",
		Usage:       "exit",
		Description: "Exit YMS",
		Handler: func(_ context.Context, _ string) (Action, error) {
			return ActionExit, nil
		},
	})
	r.Alias("quit", "exit")

	return r
}

func (s *Session) showSettings() error {
	if err := s.Renderer.Line("\nModule Settings:"); err != nil {
		return err
	}
	return s.Renderer.Settings(s.draft)
}

func settingKeys() []string {
	keys := make([]string, len(models.Fields))
	for i, f := range models.Fields {
		keys[i] = f.Key
	}
	return keys
}
