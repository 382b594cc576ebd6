// Package cli defines the yms command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yamsproject/yms/internal/config"
	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/logging"
	"github.com/yamsproject/yms/internal/renderer"
	"github.com/yamsproject/yms/internal/service"
)

// app holds the state shared by every command of one invocation
type app struct {
	version    string
	v          *viper.Viper
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// Execute runs the yms command line and exits non-zero on failure
func Execute(version string) {
	run(NewRootCommand(version))
}

// ExecuteDoctor runs the standalone report generator
func ExecuteDoctor(version string) {
	run(NewDoctorCommand(version))
}

func run(cmd *cobra.Command) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errors.NewCLIErrorHandler(nil, false).FormatError(err))
		cancel()
		os.Exit(1)
	}
}

// NewRootCommand builds the yms command tree
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "yms",
		Short: "The YAMS Management System",
		Long: `yms catalogs YAMS module directories, searches and shows their
metadata, scaffolds new modules and builds the module documentation.

Run without a command to start the interactive shell.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell(cmd)
		},
	}

	a.addPersistentFlags(rootCmd)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)
	rootCmd.AddCommand(
		a.newShellCommand(),
		a.newSearchCommand(),
		a.newShowCommand(),
		a.newCategoriesCommand(),
		a.newCreateCommand(),
		a.newReportCommand("report"),
		a.newVersionCommand(),
	)

	return rootCmd
}

func (a *app) addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.yms.yaml)")
	flags.String("modules-dir", "", "directory holding the module tree (default \"roles\")")
	flags.String("metadata-file", "", "metadata document file name (default \"docs.json\")")
	flags.String("format", "", "output format: table or json (default \"table\")")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	for key, flag := range map[string]string{
		"modules_dir":   "modules-dir",
		"metadata_file": "metadata-file",
		"format":        "format",
		"log_level":     "log-level",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", flag, err))
		}
	}
}

// setup loads configuration and builds the logger. It is safe to call more than once.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: a.verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) openService(ctx context.Context) (*service.Service, error) {
	svc, err := service.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	for _, skipped := range svc.Skipped() {
		a.logger.Debug("document not indexed", "path", skipped.Path())
	}
	return svc, nil
}

func (a *app) renderer(w io.Writer) *renderer.Renderer {
	return renderer.NewRenderer(w, a.cfg.Format)
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version",
		GroupID: "management",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "yms version %s\n", a.version)
		},
	}
}
