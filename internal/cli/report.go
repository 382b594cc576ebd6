package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yamsproject/yms/internal/report"
	"github.com/yamsproject/yms/internal/storage"
)

// NewDoctorCommand builds yms-doctor, which only generates the module documentation
func NewDoctorCommand(version string) *cobra.Command {
	a := &app{version: version, v: viper.New()}

	cmd := a.newReportCommand("yms-doctor")
	cmd.GroupID = ""
	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = a.setup
	a.addPersistentFlags(cmd)
	return cmd
}

func (a *app) newReportCommand(use string) *cobra.Command {
	var (
		output string
		render bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: "Generate the aggregate module documentation",
		Long: `Report walks every metadata document under the modules directory and
writes one markdown file with a heading per category and a section per
module. Documents that fail to parse are skipped and listed at the end.`,
		Example: fmt.Sprintf(`  %[1]s
  %[1]s --output docs/modules.md
  %[1]s --render`, use),
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = a.cfg.ReportFile
			}
			return a.runReport(cmd, output, render)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report file (default from config, \"module_docs.md\")")
	cmd.Flags().BoolVar(&render, "render", false, "render the report to the terminal instead of writing a file")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, output string, render bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store := storage.NewStorage(a.cfg.ModulesDir, a.cfg.MetadataFile, a.logger)
	if err := store.CheckRoot(); err != nil {
		return err
	}
	generator := report.NewGenerator(store, a.logger)

	var (
		summary *report.Summary
		err     error
	)
	if render {
		var buf bytes.Buffer
		if summary, err = generator.Write(ctx, &buf); err != nil {
			return err
		}
		if err := a.renderer(out).Markdown(buf.String(), 100); err != nil {
			return err
		}
	} else {
		if summary, err = generator.WriteFile(ctx, output); err != nil {
			return err
		}
		fmt.Fprintf(out, "[+] Wrote %d modules in %d categories to %s\n", summary.Modules, summary.Sections, output)
	}

	printSkipped(out, summary)
	return nil
}

func printSkipped(w io.Writer, summary *report.Summary) {
	for _, skipped := range summary.Skipped {
		fmt.Fprintf(w, "[-] Skipped %s: %v\n", skipped.Path(), skipped.Cause)
	}
}
