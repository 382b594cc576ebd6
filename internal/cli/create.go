package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/service"
	"github.com/yamsproject/yms/internal/ui"
)

// formFunc edits a draft interactively; swapped out in tests
var formFunc = ui.RunForm

func (a *app) newCreateCommand() *cobra.Command {
	var (
		draft       models.Module
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Scaffold a new module directory",
		Long: `Create writes the module directory, its tasks/main and tasks/<Name>
task files and the metadata document, then re-indexes the modules tree.

Values not given as flags can be filled in with --interactive.`,
		Example: `  yms create --name "Port Scan" --category intelligence-gathering \
    --author "Jane Doe <@jdoe>" --description "Scan the usual ports"
  yms create -i`,
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m := draft.Clone()

			if interactive {
				edited, submitted, err := formFunc(ctx, m)
				if err != nil {
					return err
				}
				if !submitted {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				m = edited
			}
			if m.Name == "" {
				return errors.MissingFieldError(models.KeyName).
					WithDetails("pass --name or use --interactive")
			}

			svc := service.New(a.cfg, a.logger)
			result, err := svc.Create(ctx, m)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[+] Created %s at %s\n", result.Module.Path(), result.Dir)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&draft.Name, "name", "", "module name")
	flags.StringVar(&draft.Author, "author", "", "module author")
	flags.StringVar(&draft.Updated, "updated", "", "last updated date (default today)")
	flags.StringVar(&draft.Category, "category", "", "module category")
	flags.StringVar(&draft.Description, "description", "", "short description")
	flags.StringVar(&draft.Instructions, "instructions", "", "how to run the module")
	flags.StringVar(&draft.URL, "url", "", "original URL")
	flags.BoolVarP(&interactive, "interactive", "i", false, "edit the values in a form")

	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return models.KnownCategories, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
