// Package platform provides the filesystem primitives the linker is built on:
// creating symlinks, clearing whatever occupies a destination path, and
// reading link targets without following them.
package platform
