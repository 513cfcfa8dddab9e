// Package toolversion reads the release string of a shared tool installation
// and compares it with the release a link table was written for.
package toolversion

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// HistoryFile is the file at the tool root that records installed releases,
// one per line, newest last.
const HistoryFile = ".version-history"

// Read returns the newest release recorded in the tool root's history file:
// the first field of the last non-blank line.
func Read(toolRoot string) (string, error) {
	path := filepath.Join(toolRoot, HistoryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var last string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
			last = fields[0]
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if last == "" {
		return "", fmt.Errorf("%s records no release", path)
	}
	return last, nil
}

// Compare compares two release strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
// Handles "v" prefix tolerance and two-part releases such as "2024.1".
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parse(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// Matches reports whether the installed release equals the expected one.
func Matches(installed, expected string) (bool, error) {
	cmp, err := Compare(installed, expected)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

func parse(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
