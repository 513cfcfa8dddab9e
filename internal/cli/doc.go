// Package cli defines the Cobra command tree for livetool_setup. The root
// command performs the live tool setup; status, config, and version are
// subcommands. Commands only handle flags, output, and exit codes; the linking
// itself lives in internal/livetool.
package cli
