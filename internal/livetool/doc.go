// Package livetool links a local working copy to a shared tool installation.
//
// For every entry of a link table the linker removes whatever occupies the
// destination inside the working copy and replaces it with a symlink to the
// matching path under the tool root. Entries whose source is missing are
// reported and the pass continues, so one run shows every problem; the run's
// error is returned once the pass is complete. Re-running is always safe.
package livetool
