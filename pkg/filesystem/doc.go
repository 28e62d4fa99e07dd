// Package filesystem provides filesystem implementations for trinity.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed filesystem used
// by tests, plus the tree helpers (walk, copy, existence checks) that the
// backup and synchronization code builds on.
package filesystem
