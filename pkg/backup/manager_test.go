package backup_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trinity-method/trinity-sdk/pkg/backup"
	"github.com/trinity-method/trinity-sdk/pkg/deploy"
	trerrors "github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/testutil"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

var fixedTime = time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC)

func newManager(fsys types.FS) *backup.Manager {
	return backup.NewManager(fsys, deploy.DefaultCategories(), deploy.UserManagedFiles).
		WithClock(func() time.Time { return fixedTime })
}

func TestCreate_MirrorsManagedTree(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")

	snap, err := newManager(env.FS).Create(env.Root)
	require.NoError(t, err)

	assert.Equal(t, "20260304-050607.890", snap.ID)
	assert.Equal(t, filepath.Join(env.Root, ".trinity-backup-20260304-050607.890"), snap.Dir)
	assert.Equal(t, types.Version("2.0.0"), snap.Version)
	assert.False(t, snap.Consumed())

	backed := testutil.ReadTree(t, env.FS, snap.Dir)
	assert.Equal(t, "2.0.0", backed["trinity/VERSION"])
	assert.Equal(t, "aly 2.0.0", backed[".claude/agents/leadership/aly.md"])
	for rel, content := range testutil.UserContent {
		assert.Equal(t, content, backed[rel])
	}
	assert.Contains(t, backed, "snapshot.yaml")
	assert.NotContains(t, backed, "trinity/sessions/2026-01-02-session.md")
	assert.NotContains(t, backed, ".claude/settings.json")
}

func TestCreate_RefusesStaleBackup(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	env.WriteFile(".trinity-backup-20250101-000000.000/trinity/VERSION", "1.0.0")

	_, err := newManager(env.FS).Create(env.Root)

	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrBackupStale))
	assert.Contains(t, trerrors.DetailString(err, "backup"), ".trinity-backup-20250101-000000.000")
	assert.Len(t, env.Backups(), 1)
}

func TestCreate_PartialFailureKeepsDirectory(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	ffs := testutil.NewFaultFS(env.FS)
	ffs.Fail(testutil.OpWriteFile, ".trinity-backup-20260304-050607.890/.claude/commands", errors.New("no space"))

	_, err := newManager(ffs).Create(env.Root)

	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrBackup))
	assert.Len(t, env.Backups(), 1)
	assert.Equal(t, "2.0.0", env.ReadFile("trinity/VERSION"))
}

func TestRollback_RestoresByteIdentical(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	before := env.Tree()

	m := newManager(env.FS)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	env.WriteFile(".claude/agents/leadership/aly.md", "half written")
	env.WriteFile(".claude/commands/new/extra.md", "new command")
	env.WriteFile("trinity/templates/brand-new/T.md", "new template")
	env.WriteFile("trinity/VERSION", "2.1.0")
	env.WriteFile("trinity/knowledge-base/ISSUES.md", "template default")

	warnings, err := m.Rollback(snap, env.Root)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, before, env.Tree())
	assert.Empty(t, env.Backups())
	assert.True(t, snap.Consumed())
}

func TestRollback_KeepsSymlinks(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvIsolated)
	env.Deploy("2.0.0")
	env.Symlink("session/trinity-start.md", ".claude/commands/review.md")
	env.Symlink("leadership", ".claude/agents/linked")
	before := env.Tree()
	require.Equal(t, "-> session/trinity-start.md", before[".claude/commands/review.md"])
	require.Equal(t, "-> leadership", before[".claude/agents/linked"])

	m := newManager(env.FS)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	manifest := testutil.ReadTree(t, env.FS, snap.Dir)["snapshot.yaml"]
	assert.Contains(t, manifest, "link: true")

	env.Remove(".claude/commands/review.md")
	env.WriteFile(".claude/commands/review.md", "regular file")
	env.Remove(".claude/agents/linked")

	_, err = m.Rollback(snap, env.Root)
	require.NoError(t, err)
	assert.Equal(t, before, env.Tree())
}

func TestRollback_RefusesRetargetedLink(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvIsolated)
	env.Deploy("2.0.0")
	env.Symlink("session/trinity-start.md", ".claude/commands/review.md")

	m := newManager(env.FS)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	saved := filepath.Join(snap.Dir, ".claude/commands/review.md")
	require.NoError(t, env.FS.Remove(saved))
	require.NoError(t, env.FS.Symlink("elsewhere.md", saved))

	_, err = m.Rollback(snap, env.Root)
	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrSnapshotCorrupt))
	assert.Equal(t, "-> session/trinity-start.md", env.Tree()[".claude/commands/review.md"])
}

func TestRollback_RemovesTargetsAbsentAtBackup(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	env.Remove(".claude/commands")
	env.Remove("trinity/VERSION")
	before := env.Tree()

	m := newManager(env.FS)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)
	assert.False(t, snap.Version.IsSet())

	env.WriteFile(".claude/commands/session/start.md", "new")
	env.WriteFile("trinity/VERSION", "2.1.0")

	_, err = m.Rollback(snap, env.Root)
	require.NoError(t, err)
	assert.Equal(t, before, env.Tree())
}

func TestRollback_LiveCheckFailure(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	env.Remove("trinity/VERSION")
	ffs := testutil.NewFaultFS(env.FS)

	m := newManager(ffs)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	env.WriteFile("trinity/VERSION", "2.1.0")
	fault := ffs.Fail(testutil.OpStat, filepath.Join(env.Root, "trinity/VERSION"), errors.New("permission denied"))

	_, err = m.Rollback(snap, env.Root)
	require.Error(t, err)
	assert.Equal(t, 1, fault.Hits())
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrRollback))
	assert.Contains(t, err.Error(), "failed to check trinity/VERSION")
	assert.Equal(t, "2.1.0", env.ReadFile("trinity/VERSION"), "a failed check is not treated as absent")
	assert.Equal(t, []string{snap.Dir}, env.Backups())
}

func TestRollback_FailureKeepsSnapshot(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	ffs := testutil.NewFaultFS(env.FS)

	m := newManager(ffs)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	ffs.Fail(testutil.OpRemoveAll, filepath.Join(env.Root, ".claude/commands"), errors.New("device busy"))

	_, err = m.Rollback(snap, env.Root)
	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrRollback))
	assert.Equal(t, snap.Dir, trerrors.DetailString(err, "backup"))
	assert.Equal(t, []string{snap.Dir}, env.Backups())
}

func TestRollback_RefusesCorruptSnapshot(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")

	m := newManager(env.FS)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	require.NoError(t, env.FS.WriteFile(filepath.Join(snap.Dir, "trinity/VERSION"), []byte("9.9.9"), 0644))
	env.WriteFile(".claude/agents/leadership/aly.md", "new content")

	_, err = m.Rollback(snap, env.Root)
	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrRollback))
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrSnapshotCorrupt))
	assert.Equal(t, "new content", env.ReadFile(".claude/agents/leadership/aly.md"))
	assert.Len(t, env.Backups(), 1)
}

func TestRollback_SnapshotRemovalFailureIsWarning(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	ffs := testutil.NewFaultFS(env.FS)

	m := newManager(ffs)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)
	ffs.Fail(testutil.OpRemoveAll, ".trinity-backup-", errors.New("busy"))

	warnings, err := m.Rollback(snap, env.Root)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], snap.Dir)
}

func TestTerminalOperationsAreExclusive(t *testing.T) {
	type op func(*backup.Manager, *backup.Snapshot, string) error
	cleanup := func(m *backup.Manager, s *backup.Snapshot, _ string) error {
		return m.Cleanup(s)
	}
	rollback := func(m *backup.Manager, s *backup.Snapshot, root string) error {
		_, err := m.Rollback(s, root)
		return err
	}

	tests := []struct {
		name   string
		first  op
		second op
	}{
		{"cleanup then rollback", cleanup, rollback},
		{"rollback then cleanup", rollback, cleanup},
		{"cleanup twice", cleanup, cleanup},
		{"rollback twice", rollback, rollback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
			env.Deploy("2.0.0")
			m := newManager(env.FS)
			snap, err := m.Create(env.Root)
			require.NoError(t, err)

			require.NoError(t, tt.first(m, snap, env.Root))
			err = tt.second(m, snap, env.Root)
			require.Error(t, err)
			assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrSnapshotConsumed))
		})
	}
}

func TestCleanup_FailureReturned(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.0.0")
	ffs := testutil.NewFaultFS(env.FS)
	m := newManager(ffs)
	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	ffs.Fail(testutil.OpRemoveAll, ".trinity-backup-", errors.New("busy"))
	err = m.Cleanup(snap)

	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrBackup))
	assert.True(t, snap.Consumed())
}

func TestLoadAndFind(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvIsolated)
	env.Deploy("2.0.0")
	m := newManager(env.FS)

	found, err := m.Find(env.Root)
	require.NoError(t, err)
	assert.Empty(t, found)

	snap, err := m.Create(env.Root)
	require.NoError(t, err)

	found, err = m.Find(env.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{snap.Dir}, found)

	loaded, err := m.Load(snap.Dir)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, env.Root, loaded.Root)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, types.Version("2.0.0"), loaded.Version)
	assert.NoError(t, m.Verify(loaded))

	env.WriteFile(".claude/agents/leadership/aly.md", "broken")
	_, err = m.Rollback(loaded, loaded.Root)
	require.NoError(t, err)
	assert.Equal(t, "aly 2.0.0", env.ReadFile(".claude/agents/leadership/aly.md"))
}

func TestLoad_Missing(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)

	_, err := newManager(env.FS).Load(filepath.Join(env.Root, ".trinity-backup-nope"))
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrNotFound))
}
