package livetool

import "errors"

var (
	// ErrMissingArgument means no tool root path was supplied.
	ErrMissingArgument = errors.New("missing tool root argument")

	// ErrInvalidToolRoot means the tool root does not exist or is not a directory.
	ErrInvalidToolRoot = errors.New("invalid tool root")

	// ErrInvalidWorkspace means the working copy root does not exist or is not a directory.
	ErrInvalidWorkspace = errors.New("invalid working copy")

	// ErrMissingDependency means a required source is absent under the tool root.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrLinkCreation means removing a destination or creating a link failed.
	ErrLinkCreation = errors.New("link creation failed")
)
