//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // LIVETOOL_HOME, holds config.yaml
	ToolRoot  string // A mock shared PetaLinux installation
	Workspace string // A mock working copy of the scripts repository
}

// setupTestEnv creates isolated temp directories and points LIVETOOL_HOME at
// one of them so no user config leaks into the run.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		ToolRoot:  t.TempDir(),
		Workspace: t.TempDir(),
	}
	t.Setenv("LIVETOOL_HOME", env.HomeDir)
	for _, key := range []string{"WORKSPACE", "LINKSPEC", "LOG_LEVEL", "NO_COLOR"} {
		t.Setenv("LIVETOOL_"+key, "")
	}
	viper.Reset()
	t.Cleanup(viper.Reset)
	return env
}

// setupToolRoot lays out a PetaLinux-like installation under root.
func setupToolRoot(t *testing.T, root, release string) {
	t.Helper()

	writeFile(t, filepath.Join(root, ".version-history"), release+" installed\n")
	writeFile(t, filepath.Join(root, "bin/buildtools/environment-setup-x86_64-petalinux-linux"), "export PATH=...\n")
	writeFile(t, filepath.Join(root, "bin/buildtools_extended/environment-setup-x86_64-petalinux-linux"), "export PATH=...\n")
	writeFile(t, filepath.Join(root, "tools/xsct-trim/bin/xsct"), "#!/bin/sh\n")
}

// setupWorkingCopy fills the working copy with the private copies a user
// would have before switching to the shared installation.
func setupWorkingCopy(t *testing.T, workspace string) {
	t.Helper()

	writeFile(t, filepath.Join(workspace, "README"), "PetaLinux scripts\n")
	writeFile(t, filepath.Join(workspace, "buildtools/environment-setup-x86_64-petalinux-linux"), "stale\n")
	writeFile(t, filepath.Join(workspace, "tools/xsct-trim"), "stale file\n")
	if err := os.Symlink("/nonexistent/buildtools_extended", filepath.Join(workspace, "buildtools_extended")); err != nil {
		t.Fatalf("creating stale link: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertLinkTo(t *testing.T, link, target string) {
	t.Helper()
	got, err := os.Readlink(link)
	if err != nil {
		t.Errorf("expected %s to be a symlink: %v", link, err)
		return
	}
	if got != target {
		t.Errorf("%s -> %s, want %s", link, got, target)
	}
}
