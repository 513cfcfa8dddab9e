package livetool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plnx-tools/livetool/internal/linkspec"
	"github.com/plnx-tools/livetool/internal/toolversion"
)

func TestSetupLinksEveryEntry(t *testing.T) {
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim")
	l := newLinker(t, f, defaultTable(t))

	report, err := l.Setup(f.ToolRoot)
	require.NoError(t, err)

	buildtools := filepath.Join(f.Workspace, "buildtools")
	xsct := filepath.Join(f.Workspace, "tools", "xsct-trim")

	target, err := os.Readlink(buildtools)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.ToolRoot, "bin", "buildtools"), target)

	target, err = os.Readlink(xsct)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.ToolRoot, "tools", "xsct-trim"), target)

	data, err := os.ReadFile(filepath.Join(xsct, "marker"))
	require.NoError(t, err)
	assert.Equal(t, "tools/xsct-trim", string(data))

	assert.Equal(t, 2, report.Count(OutcomeLinked))
	assert.Equal(t, 1, report.Count(OutcomeSkipped), "buildtools-extended is optional")
	assert.NoError(t, report.Err())
}

func TestSetupLinksOptionalWhenPresent(t *testing.T) {
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim", "bin/buildtools_extended")
	l := newLinker(t, f, defaultTable(t))

	report, err := l.Setup(f.ToolRoot)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(OutcomeLinked))

	target, err := os.Readlink(filepath.Join(f.Workspace, "buildtools_extended"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.ToolRoot, "bin", "buildtools_extended"), target)
}

func TestSetupIsIdempotent(t *testing.T) {
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim")
	l := newLinker(t, f, defaultTable(t))

	_, err := l.Setup(f.ToolRoot)
	require.NoError(t, err)
	first := snapshot(t, f.Workspace)

	_, err = l.Setup(f.ToolRoot)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, f.Workspace))
}

func TestSetupMissingDependencyContinues(t *testing.T) {
	f := newFixture(t, "tools/xsct-trim")
	l := newLinker(t, f, defaultTable(t))

	report, err := l.Setup(f.ToolRoot)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.NotErrorIs(t, err, ErrLinkCreation)
	assert.Contains(t, err.Error(), "buildtools")

	require.NotNil(t, report)
	assert.Equal(t, OutcomeMissing, report.Results[0].Outcome)
	assert.ErrorIs(t, report.Results[0].Err, ErrMissingDependency)
	assert.Equal(t, OutcomeLinked, report.Results[1].Outcome, "later entries are still linked")

	_, statErr := os.Lstat(filepath.Join(f.Workspace, "buildtools"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetupMissingDependencyLeavesDestinationAlone(t *testing.T) {
	f := newFixture(t, "tools/xsct-trim")
	existing := filepath.Join(f.Workspace, "buildtools")
	require.NoError(t, os.WriteFile(existing, []byte("local copy"), 0644))

	_, err := newLinker(t, f, defaultTable(t)).Setup(f.ToolRoot)
	require.ErrorIs(t, err, ErrMissingDependency)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "local copy", string(data))
}

func TestSetupInvalidToolRoot(t *testing.T) {
	f := newFixture(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name string
		root string
		want error
	}{
		{"empty", "", ErrMissingArgument},
		{"blank", "   ", ErrMissingArgument},
		{"nonexistent", filepath.Join(f.ToolRoot, "nope"), ErrInvalidToolRoot},
		{"regular file", file, ErrInvalidToolRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := snapshot(t, f.Workspace)

			report, err := newLinker(t, f, defaultTable(t)).Setup(tt.root)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, snapshot(t, f.Workspace), "no filesystem changes")
		})
	}
}

func TestSetupReplacesExistingDestinations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dest string)
	}{
		{"regular file", func(t *testing.T, dest string) {
			require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))
		}},
		{"directory", func(t *testing.T, dest string) {
			require.NoError(t, os.MkdirAll(filepath.Join(dest, "sysroots"), 0755))
			require.NoError(t, os.WriteFile(filepath.Join(dest, "sysroots", "x"), []byte("old"), 0644))
		}},
		{"stale symlink", func(t *testing.T, dest string) {
			require.NoError(t, os.Symlink("/nonexistent/buildtools", dest))
		}},
		{"symlink elsewhere", func(t *testing.T, dest string) {
			other := t.TempDir()
			require.NoError(t, os.Symlink(other, dest))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "bin/buildtools", "tools/xsct-trim")
			dest := filepath.Join(f.Workspace, "buildtools")
			tt.setup(t, dest)

			report, err := newLinker(t, f, defaultTable(t)).Setup(f.ToolRoot)
			require.NoError(t, err)
			assert.NotEqual(t, "absent", report.Results[0].Previous)

			target, err := os.Readlink(dest)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(f.ToolRoot, "bin", "buildtools"), target)

			entries, err := os.ReadDir(dest)
			require.NoError(t, err)
			require.Len(t, entries, 1, "nothing merged from the old destination")
			assert.Equal(t, "marker", entries[0].Name())
		})
	}
}

func TestSetupDoesNotDeleteThroughLinkedParent(t *testing.T) {
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim")

	// The working copy's tools/ is itself a link into the tool root, so
	// tools/xsct-trim is the source directory.
	require.NoError(t, os.Symlink(filepath.Join(f.ToolRoot, "tools"), filepath.Join(f.Workspace, "tools")))

	report, err := newLinker(t, f, defaultTable(t)).Setup(f.ToolRoot)
	require.ErrorIs(t, err, ErrLinkCreation)
	assert.Equal(t, OutcomeFailed, report.Results[1].Outcome)

	_, statErr := os.Stat(filepath.Join(f.ToolRoot, "tools", "xsct-trim", "marker"))
	assert.NoError(t, statErr, "tool root must not be modified")
}

func TestSetupDoesNotDeleteToolRootUnderDest(t *testing.T) {
	ws := t.TempDir()
	// The tool root sits where the buildtools link would go.
	f := &fixture{ToolRoot: filepath.Join(ws, "buildtools"), Workspace: ws}
	f.addSource(t, "bin/buildtools")
	f.addSource(t, "tools/xsct-trim")

	l := newLinker(t, f, defaultTable(t))

	plan, err := l.Plan(f.ToolRoot)
	require.ErrorIs(t, err, ErrLinkCreation)
	assert.Equal(t, OutcomeFailed, plan.Results[0].Outcome)
	assert.Equal(t, OutcomePlanned, plan.Results[1].Outcome)

	report, err := l.Setup(f.ToolRoot)
	require.ErrorIs(t, err, ErrLinkCreation)
	assert.NotErrorIs(t, err, ErrMissingDependency)
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
	assert.Equal(t, OutcomeLinked, report.Results[1].Outcome)

	info, err := os.Lstat(f.ToolRoot)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "tool root must still be a directory")
	for _, rel := range []string{"bin/buildtools/marker", "tools/xsct-trim/marker"} {
		_, statErr := os.Stat(filepath.Join(f.ToolRoot, rel))
		assert.NoError(t, statErr, "tool root must not be modified: %s", rel)
	}
}

func TestSetupLinkCreationFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim")

	tools := filepath.Join(f.Workspace, "tools")
	require.NoError(t, os.Mkdir(tools, 0555))
	t.Cleanup(func() { os.Chmod(tools, 0755) })

	report, err := newLinker(t, f, defaultTable(t)).Setup(f.ToolRoot)
	assert.ErrorIs(t, err, ErrLinkCreation)
	assert.NotErrorIs(t, err, ErrMissingDependency)
	assert.Equal(t, OutcomeLinked, report.Results[0].Outcome)
	assert.Equal(t, OutcomeFailed, report.Results[1].Outcome)
}

func TestPlanMakesNoChanges(t *testing.T) {
	f := newFixture(t, "bin/buildtools")
	stale := filepath.Join(f.Workspace, "buildtools")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))
	before := snapshot(t, f.Workspace)

	report, err := newLinker(t, f, defaultTable(t)).Plan(f.ToolRoot)
	assert.ErrorIs(t, err, ErrMissingDependency, "xsct-trim is absent")

	assert.Equal(t, OutcomePlanned, report.Results[0].Outcome)
	assert.Equal(t, "file", report.Results[0].Previous)
	assert.Equal(t, OutcomeMissing, report.Results[1].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Results[2].Outcome)
	assert.Equal(t, before, snapshot(t, f.Workspace))
}

func TestSetupVersionWarning(t *testing.T) {
	tests := []struct {
		name     string
		history  string
		warnings int
	}{
		{"matching release", "2024.1\n", 0},
		{"older release", "2023.2\n", 1},
		{"unparsable release", "nightly\n", 0},
		{"no history", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "bin/buildtools", "tools/xsct-trim")
			if tt.history != "" {
				require.NoError(t, os.WriteFile(filepath.Join(f.ToolRoot, toolversion.HistoryFile), []byte(tt.history), 0644))
			}

			report, err := newLinker(t, f, defaultTable(t)).Setup(f.ToolRoot)
			require.NoError(t, err, "a release mismatch never fails the run")
			assert.Len(t, report.Warnings, tt.warnings)
			assert.Equal(t, "2024.1", report.Expected)
		})
	}
}

func TestSetupCustomTable(t *testing.T) {
	f := newFixture(t, "components/yocto/buildtools")
	table := &linkspec.Table{
		Version: "2023.2",
		Links: []linkspec.Link{
			{Name: "buildtools", Dest: "components/yocto/buildtools", Source: "components/yocto/buildtools"},
		},
	}

	_, err := newLinker(t, f, table).Setup(f.ToolRoot)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(f.Workspace, "components", "yocto", "buildtools"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.ToolRoot, "components", "yocto", "buildtools"), target)
}

func TestSetupRelativeToolRootBecomesAbsolute(t *testing.T) {
	f := newFixture(t, "bin/buildtools", "tools/xsct-trim")
	t.Chdir(filepath.Dir(f.ToolRoot))

	_, err := newLinker(t, f, defaultTable(t)).Setup(filepath.Base(f.ToolRoot))
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(f.Workspace, "buildtools"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(target), "link target %q should be absolute", target)
}

func TestNewInvalidWorkspace(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), defaultTable(t), nil)
	assert.ErrorIs(t, err, ErrInvalidWorkspace)

	_, err = New(t.TempDir(), nil, nil)
	assert.Error(t, err)
}

func TestReportErrJoinsKinds(t *testing.T) {
	r := &Report{Results: []Result{
		{Link: linkspec.Link{Name: "a"}, Outcome: OutcomeMissing},
		{Link: linkspec.Link{Name: "b"}, Outcome: OutcomeFailed},
		{Link: linkspec.Link{Name: "c"}, Outcome: OutcomeMissing},
		{Link: linkspec.Link{Name: "d"}, Outcome: OutcomeLinked},
	}}

	err := r.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependency))
	assert.True(t, errors.Is(err, ErrLinkCreation))
	assert.Contains(t, err.Error(), "a, c")
	assert.Equal(t, 2, r.Count(OutcomeMissing))

	assert.NoError(t, (&Report{}).Err())
}
