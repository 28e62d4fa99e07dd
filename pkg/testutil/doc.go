// Package testutil provides utilities for testing trinity components.
//
// Key components:
//   - Environment: a deployment root plus an SDK directory on either an
//     in-memory (afero) or a temp-dir filesystem, with builders for a
//     previously completed deployment and a published template set
//   - FaultFS: a types.FS wrapper that injects errors and delays on
//     matching operations
//   - Tree: a path -> content snapshot used for byte-identical comparisons
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated for code paths that depend on
//     real filesystem semantics
//   - All test data is defined inline, not in external files
package testutil
