package cli

import (
	"github.com/spf13/cobra"

	"github.com/plnx-tools/livetool/internal/livetool"
	"github.com/plnx-tools/livetool/internal/platform"
	"github.com/plnx-tools/livetool/internal/report"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <tool-root-path>",
		Short: "Check that the working copy is linked to a tool root",
		Long: `Inspect every link in the table without changing anything and report
whether it points at the expected path under the tool root.`,
		Args: exactToolRoot,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := livetool.ValidateToolRoot(args[0]); err != nil {
				return err
			}
			linker, err := opts.newLinker()
			if err != nil {
				return err
			}

			statuses, err := linker.Status(args[0])
			if err != nil {
				return err
			}

			r := newRenderer(cmd.OutOrStdout())
			r.Heading("Link status for %s", linker.Workspace())
			ok := 0
			for _, s := range statuses {
				switch s.State {
				case livetool.StateOK:
					ok++
					r.Line(report.TagOK, "%s: %s -> %s", s.Link.Name, s.Link.Dest, s.Target)
				case livetool.StateWrongTarget:
					r.Line(report.TagWarn, "%s: %s -> %s (expected %s)", s.Link.Name, s.Link.Dest, s.Target, s.Source)
				case livetool.StateNotLinked:
					if s.Kind == platform.KindAbsent {
						r.Line(report.TagMiss, "%s: %s does not exist", s.Link.Name, s.Link.Dest)
					} else {
						r.Line(report.TagMiss, "%s: %s is a %s, not a link", s.Link.Name, s.Link.Dest, s.Kind)
					}
				case livetool.StateMissing:
					tag := report.TagFail
					if s.Link.Optional {
						tag = report.TagSkip
					}
					r.Line(tag, "%s: %s not found under the tool root", s.Link.Name, s.Source)
				}
			}
			r.Summary("%d/%d links valid", ok, len(statuses))

			if !livetool.Healthy(statuses) {
				return errNotLinked
			}
			return nil
		},
	}
}
