package livetool

import (
	"os"
	"path/filepath"

	"github.com/plnx-tools/livetool/internal/linkspec"
	"github.com/plnx-tools/livetool/internal/platform"
)

// Link states reported by Status.
const (
	StateOK          = "ok"
	StateWrongTarget = "wrong-target"
	StateNotLinked   = "not-linked"
	StateMissing     = "missing"
)

// LinkStatus is the observed state of one table entry.
type LinkStatus struct {
	Link   linkspec.Link
	Source string
	Dest   string
	State  string
	Kind   string // platform.Kind of the destination
	Target string // current link target when Kind is a symlink
}

// Healthy reports whether every required entry is linked correctly.
// Optional entries whose source is absent do not count against health.
func Healthy(statuses []LinkStatus) bool {
	for _, s := range statuses {
		if s.State == StateOK {
			continue
		}
		if s.State == StateMissing && s.Link.Optional {
			continue
		}
		return false
	}
	return true
}

// Status inspects the working copy without changing it.
func (l *Linker) Status(toolRoot string) ([]LinkStatus, error) {
	root, err := ValidateToolRoot(toolRoot)
	if err != nil {
		return nil, err
	}

	statuses := make([]LinkStatus, 0, len(l.table.Links))
	for _, link := range l.table.Links {
		s := LinkStatus{
			Link:   link,
			Source: filepath.Join(root, link.Source),
			Dest:   filepath.Join(l.workspace, link.Dest),
		}

		kind, err := platform.Kind(s.Dest)
		if err != nil {
			kind = platform.KindOther
		}
		s.Kind = kind
		if kind == platform.KindSymlink {
			s.Target, _ = platform.ReadSymlinkTarget(s.Dest)
		}

		switch {
		case !exists(s.Source):
			s.State = StateMissing
		case kind != platform.KindSymlink:
			s.State = StateNotLinked
		case platform.PointsTo(s.Dest, s.Source):
			s.State = StateOK
		default:
			s.State = StateWrongTarget
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
