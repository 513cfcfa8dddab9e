package livetool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plnx-tools/livetool/internal/linkspec"
)

// fixture is a tool root and an empty working copy in separate temp dirs.
type fixture struct {
	ToolRoot  string
	Workspace string
}

func newFixture(t *testing.T, sources ...string) *fixture {
	t.Helper()

	f := &fixture{ToolRoot: t.TempDir(), Workspace: t.TempDir()}
	for _, s := range sources {
		f.addSource(t, s)
	}
	return f
}

// addSource creates a directory under the tool root with a marker file.
func (f *fixture) addSource(t *testing.T, rel string) {
	t.Helper()
	dir := filepath.Join(f.ToolRoot, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating source %s: %v", rel, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "marker"), []byte(rel), 0644); err != nil {
		t.Fatalf("writing marker in %s: %v", rel, err)
	}
}

func defaultTable(t *testing.T) *linkspec.Table {
	t.Helper()
	table, err := linkspec.Default()
	if err != nil {
		t.Fatalf("loading default table: %v", err)
	}
	return table
}

func newLinker(t *testing.T, f *fixture, table *linkspec.Table) *Linker {
	t.Helper()
	l, err := New(f.Workspace, table, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

// snapshot records every path under root with its link target, or "" for
// non-links.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		target, _ := os.Readlink(path)
		out[rel] = target
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return out
}
