package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plnx-tools/livetool/internal/branding"
	"github.com/plnx-tools/livetool/internal/config"
	"github.com/plnx-tools/livetool/internal/linkspec"
	"github.com/plnx-tools/livetool/internal/livetool"
	"github.com/plnx-tools/livetool/internal/logger"
	"github.com/plnx-tools/livetool/internal/report"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

// options holds the state shared by one command tree.
type options struct {
	build  buildInfo
	dryRun bool
	log    *slog.Logger
}

func newRootCmd(build buildInfo) *cobra.Command {
	opts := &options{build: build}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " <tool-root-path>",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` links build tools, the trimmed XSCT and other
dependencies from a shared ` + branding.VendorTool() + ` installation into this working copy,
replacing any local copies. Running it again with the same tool root is safe.`,
		Example: "  " + branding.CLIName() + " /opt/petalinux/2024.1\n" +
			"  " + branding.CLIName() + " --dry-run /opt/petalinux/2024.1",
		Args:          exactToolRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, opts, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.StringP("workspace", "w", "", "Working copy to link into (default: current directory)")
	flags.String("linkspec", "", "Link table file to use instead of the built-in one")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("no-color", false, "Disable coloured output")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be linked without changing anything")

	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(opts))
	return cmd
}

// setup loads configuration and builds the logger before any command runs.
func (o *options) setup(cmd *cobra.Command) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := config.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	known := logger.Level.SetByName(config.LogLevel())
	o.log = logger.New(cmd.ErrOrStderr(), logger.Options{NoColor: config.NoColor()})
	if !known {
		o.log.Warn("unknown log level, using info", "level", config.LogLevel())
	}
	return nil
}

// exactToolRoot accepts exactly one positional tool root path.
func exactToolRoot(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return &usageError{err: livetool.ErrMissingArgument}
	case len(args) > 1:
		return &usageError{err: fmt.Errorf("expected one tool root path, got %d arguments", len(args))}
	}
	return nil
}

// newLinker builds a Linker from the resolved configuration.
func (o *options) newLinker() (*livetool.Linker, error) {
	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	workspace := config.Workspace()
	if workspace == "" {
		workspace = "."
	}
	return livetool.New(workspace, table, o.log)
}

func loadTable() (*linkspec.Table, error) {
	if path := config.LinkSpec(); path != "" {
		return linkspec.Load(path)
	}
	return linkspec.Default()
}

func newRenderer(w io.Writer) *report.Renderer {
	return report.New(w, report.Options{NoColor: config.NoColor()})
}

// Execute runs the command tree with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(buildInfo{version: version, commit: commit, date: date})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	executed, err := cmd.ExecuteC()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var usage *usageError
		showUsage := errors.As(err, &usage) || errors.Is(err, livetool.ErrInvalidToolRoot)
		if showUsage && executed != nil {
			fmt.Fprint(stderr, executed.UsageString())
		}
	}
	return ExitCode(err)
}
