package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamsproject/yms/internal/models"
)

func (a *app) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>...",
		Short: "Search modules by category, name or description",
		Long: `Search matches the term, case-insensitively, against each module's
category, its normalized name and its description. Multiple arguments are
joined with spaces into a single term.`,
		Example: `  yms search privesc
  yms search "port scan" --format json`,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer(cmd.OutOrStdout()).Modules(svc.Search(strings.Join(args, " ")))
		},
	}
}

func (a *app) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [all | <category> | <category>/<module>]",
		Short: "Show module summaries or one module's full metadata",
		Example: `  yms show
  yms show exploitation
  yms show exploitation/port_scan`,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := models.AllCategories
			if len(args) == 1 {
				target = args[0]
			}

			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.Show(target)
			if err != nil {
				return err
			}

			r := a.renderer(cmd.OutOrStdout())
			if result.IsDetail() {
				return r.Detail(result.Module)
			}
			return r.Summary(result.Entries)
		},
	}
}

func (a *app) newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Short:   "List the categories that hold at least one module",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer(cmd.OutOrStdout()).List(svc.Categories())
		},
	}
}

// completeTargets offers "all", every category and every category/module path
func (a *app) completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := a.setup(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	svc, err := a.openService(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, target := range svc.CategoryPaths() {
		if strings.HasPrefix(strings.ToLower(target), strings.ToLower(toComplete)) {
			completions = append(completions, target)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
