// Package update drives a deployment from its installed version to the
// version published by a template source.
//
// Run sequences the lifecycle as a state machine:
//
//	Preflight -> VersionCheck -> Confirmed -> BackingUp -> Syncing ->
//	Preserving -> WritingVersion -> Verifying -> CleaningUp -> Done
//
// Preflight, VersionCheck and BackingUp fail closed: nothing has been
// written when they fail. A failure in Syncing, Preserving, WritingVersion
// or Verifying moves the run to RollingBack, which restores the snapshot
// taken in BackingUp and reports the original error. If the rollback fails
// too the run ends in DoubleFault and the snapshot is kept on disk for
// manual recovery.
//
// Once BackingUp has started the run ignores caller cancellation; an
// interrupted run would leave a stale snapshot behind.
package update
