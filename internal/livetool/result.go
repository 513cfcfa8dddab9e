package livetool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plnx-tools/livetool/internal/linkspec"
)

// Outcome is what happened to one table entry.
type Outcome string

const (
	OutcomeLinked  Outcome = "linked"
	OutcomePlanned Outcome = "planned"
	OutcomeSkipped Outcome = "skipped"
	OutcomeMissing Outcome = "missing"
	OutcomeFailed  Outcome = "failed"
)

// Result describes one table entry after a pass.
type Result struct {
	Link     linkspec.Link
	Source   string // absolute path under the tool root
	Dest     string // absolute path inside the working copy
	Previous string // platform.Kind of the destination before the pass
	Outcome  Outcome
	Err      error
}

// Report collects the results of a Setup or Plan pass.
type Report struct {
	ToolRoot  string
	Workspace string
	Installed string // tool release read from the tool root, if any
	Expected  string // release the link table was written for
	Warnings  []string
	Results   []Result
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Err returns nil when every required entry succeeded. Otherwise it joins one
// error per failure kind, each naming the affected entries.
func (r *Report) Err() error {
	var missing, failed []string
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeMissing:
			missing = append(missing, res.Link.Name)
		case OutcomeFailed:
			failed = append(failed, res.Link.Name)
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingDependency, strings.Join(missing, ", ")))
	}
	if len(failed) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrLinkCreation, strings.Join(failed, ", ")))
	}
	return errors.Join(errs...)
}
