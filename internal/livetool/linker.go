package livetool

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/plnx-tools/livetool/internal/linkspec"
	"github.com/plnx-tools/livetool/internal/platform"
	"github.com/plnx-tools/livetool/internal/toolversion"
)

// Linker applies a link table to one working copy.
type Linker struct {
	workspace string
	table     *linkspec.Table
	log       *slog.Logger
}

// New returns a Linker for the working copy at workspace. A nil logger
// discards diagnostics.
func New(workspace string, table *linkspec.Table, log *slog.Logger) (*Linker, error) {
	if table == nil {
		return nil, errors.New("link table is nil")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	abs, err := existingDir(workspace)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkspace, err)
	}

	return &Linker{workspace: abs, table: table, log: log}, nil
}

// Workspace returns the absolute working copy root.
func (l *Linker) Workspace() string {
	return l.workspace
}

// ValidateToolRoot checks that path names an existing directory and returns
// it as an absolute, cleaned path.
func ValidateToolRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrMissingArgument
	}
	abs, err := existingDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToolRoot, err)
	}
	return abs, nil
}

// Setup links every table entry into the working copy. The returned report
// is non-nil whenever the tool root was valid, even if some entries failed;
// the error is then the report's Err.
func (l *Linker) Setup(toolRoot string) (*Report, error) {
	report, root, err := l.begin(toolRoot)
	if err != nil {
		return nil, err
	}

	for _, link := range l.table.Links {
		res := l.resolve(root, link)
		if res.Outcome == "" {
			l.apply(root, &res)
		}
		report.Results = append(report.Results, res)
	}

	return report, report.Err()
}

// Plan reports what Setup would do without touching the filesystem.
func (l *Linker) Plan(toolRoot string) (*Report, error) {
	report, root, err := l.begin(toolRoot)
	if err != nil {
		return nil, err
	}

	for _, link := range l.table.Links {
		res := l.resolve(root, link)
		if res.Outcome == "" {
			if err := l.guard(root, res.Dest); err != nil {
				res.Outcome, res.Err = OutcomeFailed, err
			} else {
				res.Outcome = OutcomePlanned
			}
		}
		report.Results = append(report.Results, res)
	}

	return report, report.Err()
}

func (l *Linker) begin(toolRoot string) (*Report, string, error) {
	root, err := ValidateToolRoot(toolRoot)
	if err != nil {
		return nil, "", err
	}
	l.log.Debug("tool root validated", "root", root, "workspace", l.workspace)

	report := &Report{
		ToolRoot:  root,
		Workspace: l.workspace,
		Expected:  l.table.Version,
	}
	l.checkVersion(report)
	return report, root, nil
}

// checkVersion records a warning when the tool release differs from the one
// the table was written for. An unknown release is not an error.
func (l *Linker) checkVersion(report *Report) {
	installed, err := toolversion.Read(report.ToolRoot)
	if err != nil {
		l.log.Debug("tool release unknown", "error", err)
		return
	}
	report.Installed = installed

	if report.Expected == "" {
		return
	}
	same, err := toolversion.Matches(installed, report.Expected)
	if err != nil {
		l.log.Debug("cannot compare tool releases", "installed", installed, "expected", report.Expected, "error", err)
		return
	}
	if !same {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"tool root is release %s but the link table was written for %s", installed, report.Expected))
	}
}

// resolve computes the paths of one entry and checks its source. A result
// with an empty Outcome is ready to be applied.
func (l *Linker) resolve(root string, link linkspec.Link) Result {
	res := Result{
		Link:   link,
		Source: filepath.Join(root, link.Source),
		Dest:   filepath.Join(l.workspace, link.Dest),
	}

	if kind, err := platform.Kind(res.Dest); err == nil {
		res.Previous = kind
	}

	if _, err := os.Stat(res.Source); err != nil {
		if link.Optional && errors.Is(err, fs.ErrNotExist) {
			l.log.Debug("optional source absent", "name", link.Name, "source", res.Source)
			res.Outcome = OutcomeSkipped
			return res
		}
		res.Outcome = OutcomeMissing
		res.Err = fmt.Errorf("%w: %s: %v", ErrMissingDependency, link.Name, err)
	}
	return res
}

func (l *Linker) apply(root string, res *Result) {
	if err := l.guard(root, res.Dest); err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return
	}

	if res.Previous != "" && res.Previous != platform.KindAbsent {
		l.log.Debug("removing existing destination", "name", res.Link.Name, "dest", res.Dest, "kind", res.Previous)
	}
	if err := platform.RemovePath(res.Dest); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: removing existing %s: %v", ErrLinkCreation, res.Dest, err)
		return
	}

	if err := platform.CreateSymlink(res.Source, res.Dest); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: %v", ErrLinkCreation, err)
		return
	}

	l.log.Debug("linked", "name", res.Link.Name, "dest", res.Dest, "source", res.Source)
	res.Outcome = OutcomeLinked
}

// guard refuses destinations whose removal would touch the tool root: a
// parent that resolves into the tool root, or a destination that contains it.
// The last element of dest is not followed since removal never follows it.
func (l *Linker) guard(root, dest string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("%w: resolving tool root: %v", ErrLinkCreation, err)
	}
	parent, err := resolveExisting(filepath.Dir(dest))
	if err != nil {
		return fmt.Errorf("%w: resolving parent of %s: %v", ErrLinkCreation, dest, err)
	}
	if within(parent, realRoot) {
		return fmt.Errorf("%w: %s resolves inside the tool root %s", ErrLinkCreation, dest, root)
	}
	if within(realRoot, filepath.Join(parent, filepath.Base(dest))) {
		return fmt.Errorf("%w: %s contains the tool root %s", ErrLinkCreation, dest, root)
	}
	return nil
}

func existingDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s does not exist", path)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return abs, nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path
// and re-appends the parts that do not exist yet.
func resolveExisting(path string) (string, error) {
	var rest []string
	for {
		if _, err := os.Lstat(path); err == nil {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return "", err
			}
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no existing ancestor of %s", path)
		}
		rest = append(rest, filepath.Base(path))
		path = parent
	}
}

func within(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
