// Package backup creates, restores and discards deployment snapshots.
//
// A snapshot is a child directory of the deployment root named
// .trinity-backup-<id> that mirrors every managed category target, the
// version marker and the user-managed files at their live relative paths.
// A snapshot.yaml manifest records the BLAKE3 digest of every copied file
// so a rollback can refuse to restore from a damaged snapshot.
//
// At most one snapshot may exist below a root. A snapshot is consumed by
// exactly one of Rollback or Cleanup.
package backup
