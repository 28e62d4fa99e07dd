// Package types defines the core types and interfaces shared by the update
// lifecycle: the filesystem capability, versions, managed categories, the
// run phases and the progress events emitted for a presentation layer, and
// the template source capability the lifecycle reads from.
package types
