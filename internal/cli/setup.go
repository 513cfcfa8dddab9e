package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plnx-tools/livetool/internal/livetool"
	"github.com/plnx-tools/livetool/internal/platform"
	"github.com/plnx-tools/livetool/internal/report"
)

func runSetup(cmd *cobra.Command, opts *options, toolRoot string) error {
	// Reject a bad tool root before anything else is resolved.
	if _, err := livetool.ValidateToolRoot(toolRoot); err != nil {
		return err
	}

	linker, err := opts.newLinker()
	if err != nil {
		return err
	}

	var rep *livetool.Report
	if opts.dryRun {
		rep, err = linker.Plan(toolRoot)
	} else {
		rep, err = linker.Setup(toolRoot)
	}
	if rep != nil {
		printReport(newRenderer(cmd.OutOrStdout()), rep, opts.dryRun)
	}
	return err
}

func printReport(r *report.Renderer, rep *livetool.Report, dryRun bool) {
	verb := "Linking"
	if dryRun {
		verb = "Planning links for"
	}
	r.Heading("%s %s -> %s", verb, rep.Workspace, rep.ToolRoot)

	if rep.Installed != "" {
		r.Line(report.TagInfo, "tool release %s", rep.Installed)
	}
	for _, w := range rep.Warnings {
		r.Line(report.TagWarn, "%s", w)
	}

	for _, res := range rep.Results {
		name := res.Link.Name
		switch res.Outcome {
		case livetool.OutcomeLinked:
			r.Line(report.TagOK, "%s: %s -> %s%s", name, res.Link.Dest, res.Source, replaced(res.Previous, "replaced"))
		case livetool.OutcomePlanned:
			r.Line(report.TagPlan, "%s: %s -> %s%s", name, res.Link.Dest, res.Source, replaced(res.Previous, "would replace"))
		case livetool.OutcomeSkipped:
			r.Line(report.TagSkip, "%s: optional %s not found", name, res.Source)
		case livetool.OutcomeMissing:
			r.Line(report.TagMiss, "%s: %s not found under the tool root", name, res.Source)
		case livetool.OutcomeFailed:
			r.Line(report.TagFail, "%s: %v", name, res.Err)
		}
	}

	done := rep.Count(livetool.OutcomeLinked)
	doneLabel := "linked"
	if dryRun {
		done = rep.Count(livetool.OutcomePlanned)
		doneLabel = "to link"
	}
	r.Summary("%d %s, %d skipped, %d missing, %d failed",
		done, doneLabel,
		rep.Count(livetool.OutcomeSkipped),
		rep.Count(livetool.OutcomeMissing),
		rep.Count(livetool.OutcomeFailed))
}

func replaced(kind, verb string) string {
	if kind == "" || kind == platform.KindAbsent {
		return ""
	}
	return fmt.Sprintf(" (%s existing %s)", verb, kind)
}
