// Package linkspec defines the table of links a live tool setup creates: for
// each entry, a destination inside the working copy and the path under the
// shared tool root it should resolve to. The default table for the supported
// tool release is embedded; alternate tables are YAML files validated against
// an embedded JSON schema before use.
package linkspec
