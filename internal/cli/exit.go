package cli

import (
	"errors"

	"github.com/plnx-tools/livetool/internal/linkspec"
	"github.com/plnx-tools/livetool/internal/livetool"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitUsage      = 2
	ExitValidation = 3
	ExitLink       = 4
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// errNotLinked is returned by status when a required link is not in place.
var errNotLinked = errors.New("working copy is not fully linked")

// ExitCode maps an error from the command tree to a process exit code.
// When a pass reports both missing dependencies and link failures, the
// validation code wins: fixing the tool root is the first step either way.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usage *usageError
	var invalidTable *linkspec.InvalidTableError
	switch {
	case errors.As(err, &usage), errors.Is(err, livetool.ErrMissingArgument):
		return ExitUsage
	case errors.Is(err, livetool.ErrInvalidToolRoot),
		errors.Is(err, livetool.ErrInvalidWorkspace),
		errors.Is(err, livetool.ErrMissingDependency),
		errors.As(err, &invalidTable),
		errors.Is(err, errNotLinked):
		return ExitValidation
	case errors.Is(err, livetool.ErrLinkCreation):
		return ExitLink
	default:
		return ExitError
	}
}
