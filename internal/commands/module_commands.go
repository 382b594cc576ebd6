package commands

import (
	"context"
	"fmt"

	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/renderer"
	"github.com/yamsproject/yms/internal/service"
)

// FormFunc edits draft interactively. It reports whether the user submitted
// the form; a cancelled form leaves the draft untouched.
type FormFunc func(ctx context.Context, draft *models.Module) (*models.Module, bool, error)

// Session is the state shared by the main table and the create sub-shell
type Session struct {
	Service  *service.Service
	Renderer *renderer.Renderer
	Form     FormFunc

	draft *models.Module
}

// NewSession creates a session with an empty draft module
func NewSession(svc *service.Service, r *renderer.Renderer, form FormFunc) *Session {
	return &Session{
		Service:  svc,
		Renderer: r,
		Form:     form,
		draft:    &models.Module{},
	}
}

// Draft returns the module being edited in the create sub-shell
func (s *Session) Draft() *models.Module {
	return s.draft
}

// MainCommands builds the top-level dispatch table
func MainCommands(s *Session) *Registry {
	r := NewRegistry("main", s.Renderer.Writer())

	r.Register(&Command{
		Name:        "searchmodule",
		Usage:       "searchmodule [search term]",
		Description: "Search module names, categories and descriptions",
		Handler: func(_ context.Context, args string) (Action, error) {
			results := s.Service.Search(args)
			if err := s.Renderer.Line("\nSearch Results:"); err != nil {
				return ActionContinue, err
			}
			return ActionContinue, s.Renderer.Modules(results)
		},
	})

	r.Register(&Command{
		Name:        "showmodule",
		Usage:       "showmodule [category | all][/modulename]",
		Description: "Show a summary of a category or the details of one module",
		Handler: func(_ context.Context, args string) (Action, error) {
			result, err := s.Service.Show(args)
			if err != nil {
				return ActionContinue, err
			}
			if result.IsDetail() {
				return ActionContinue, s.Renderer.Detail(result.Module)
			}
			return ActionContinue, s.Renderer.Summary(result.Entries)
		},
		Complete: PrefixCompleter(s.Service.CategoryPaths),
	})

	r.Register(&Command{
		Name:        "categories",
		Usage:       "categories",
		Description: "List module categories",
		Handler: func(_ context.Context, _ string) (Action, error) {
			return ActionContinue, s.Renderer.List(s.Service.Categories())
		},
	})

	r.Register(&Command{
		Name:        "refresh",
		Usage:       "refresh",
		Description: "Rebuild the module index from disk",
		Handler: func(ctx context.Context, _ string) (Action, error) {
			if err := s.Service.Refresh(ctx); err != nil {
				return ActionContinue, err
			}
			if err := s.Renderer.Line(fmt.Sprintf("[*] Indexed %d modules", s.Service.Index().Len())); err != nil {
				return ActionContinue, err
			}
			for _, skipped := range s.Service.Skipped() {
				if err := s.Renderer.Line(fmt.Sprintf("[-] Skipped %s: %v", skipped.Path(), skipped.Cause)); err != nil {
					return ActionContinue, err
				}
			}
			return ActionContinue, nil
		},
	})

	r.Register(&Command{
		Name:        "newmodule",
		Usage:       "newmodule",
		Description: "Create a new module skeleton",
		Handler: func(_ context.Context, _ string) (Action, error) {
			return ActionEnter, nil
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
