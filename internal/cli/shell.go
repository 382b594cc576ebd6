package cli

import (
	"github.com/spf13/cobra"

	"github.com/yamsproject/yms/internal/commands"
	"github.com/yamsproject/yms/internal/shell"
	"github.com/yamsproject/yms/internal/ui"
)

func (a *app) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "shell",
		Short:   "Start the interactive management shell",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell(cmd)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command) error {
	svc, err := a.openService(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	session := commands.NewSession(svc, a.renderer(out), ui.RunForm)
	sh := shell.New(session, out, shell.Options{
		HistoryFile: a.cfg.HistoryFile,
		Version:     a.version,
		Verbose:     a.verbose,
		Logger:      a.logger,
	})
	return sh.Run(cmd.Context())
}
