// Package paths provides centralized path handling for a trinity deployment.
//
// A deployment root holds two managed trees, trinity/ and .claude/, whose
// layout is fixed and not user-configurable: the update lifecycle, the
// verifier and the backup code all rely on the same relative paths. This
// package is the single place those paths are spelled out.
//
// # Layout
//
//	<root>/
//	  trinity/VERSION                 version marker
//	  trinity/templates/              document templates
//	  trinity/knowledge-base/         curated knowledge base
//	  .claude/agents/                 agent prompts
//	  .claude/commands/               command definitions
//	  .trinity-backup-<id>/           backup snapshot (at most one)
//
// # Environment Variables
//
//   - TRINITY_TARGET_ROOT: default deployment root (default: current directory)
//   - TRINITY_CONFIG_DIR: override the XDG config directory
//   - TRINITY_DATA_DIR: override the XDG data directory
//
// All relative paths in this package are slash-separated; use Join to turn
// them into OS paths below a root.
package paths
