package backup

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// IDLayout formats snapshot ids from their UTC creation time.
const IDLayout = "20060102-150405.000"

// Snapshot is a snapshot directory created by, or loaded into, a Manager.
type Snapshot struct {
	ID        string
	Dir       string
	Root      string
	CreatedAt time.Time
	// Version is the marker content at snapshot time, unset when the
	// deployment had no marker.
	Version types.Version

	mu       sync.Mutex
	consumed bool
}

// Consumed reports whether Rollback or Cleanup has been called.
func (s *Snapshot) Consumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

func (s *Snapshot) consume(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return errors.Newf(errors.ErrSnapshotConsumed, "snapshot %s already consumed, cannot %s", s.ID, op).
			WithDetail("backup", s.Dir)
	}
	s.consumed = true
	return nil
}

// Manager creates and consumes snapshots of the managed categories.
type Manager struct {
	fs         types.FS
	categories []types.ManagedCategory
	userFiles  []string
	now        func() time.Time
	logger     zerolog.Logger
}

// NewManager creates a manager covering categories and the user-managed
// files (root-relative).
func NewManager(fsys types.FS, categories []types.ManagedCategory, userFiles []string) *Manager {
	return &Manager{
		fs:         fsys,
		categories: categories,
		userFiles:  userFiles,
		now:        time.Now,
		logger:     logging.GetLogger("backup"),
	}
}

// WithClock replaces the time source used for snapshot ids.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Find returns the snapshot directories below root, sorted by name.
func (m *Manager) Find(root string) ([]string, error) {
	entries, err := m.fs.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackup, "failed to list %s", root)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && paths.IsBackupName(entry.Name()) {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Create snapshots root. It refuses when a snapshot already exists. On a
// partial failure the incomplete snapshot directory is left for diagnosis.
func (m *Manager) Create(root string) (*Snapshot, error) {
	existing, err := m.Find(root)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.Newf(errors.ErrBackupStale,
			"a previous backup exists at %s; restore or remove it before updating", existing[0]).
			WithDetail("backup", existing[0])
	}

	createdAt := m.now().UTC()
	snap := &Snapshot{
		ID:        createdAt.Format(IDLayout),
		Root:      root,
		CreatedAt: createdAt,
	}
	snap.Dir = paths.BackupDir(root, snap.ID)

	logger := m.logger.With().Str("backup", snap.Dir).Logger()
	done := logging.LogOperationStart(logger, "backup.create")
	defer done()

	fail := func(err error, format string, args ...interface{}) error {
		return errors.Wrapf(err, errors.ErrBackup, format, args...).WithDetail("backup", snap.Dir)
	}

	if err := m.fs.MkdirAll(snap.Dir, 0755); err != nil {
		return nil, fail(err, "failed to create backup directory")
	}

	for _, category := range m.categories {
		src := paths.Join(root, category.TargetPath)
		if !filesystem.IsDir(m.fs, src) {
			logger.Debug().Str("category", category.Name).Msg("Category not deployed, nothing to back up")
			continue
		}
		if err := filesystem.CopyTree(m.fs, src, paths.Join(snap.Dir, category.TargetPath)); err != nil {
			return nil, fail(err, "failed to back up %s", category.Name)
		}
	}

	for _, rel := range append([]string{paths.VersionFile}, m.userFiles...) {
		src := paths.Join(root, rel)
		ok, err := filesystem.Exists(m.fs, src)
		if err != nil {
			return nil, fail(err, "failed to check %s", rel)
		}
		if !ok {
			continue
		}
		if err := filesystem.CopyFile(m.fs, src, paths.Join(snap.Dir, rel)); err != nil {
			return nil, fail(err, "failed to back up %s", rel)
		}
	}

	version, err := readMarker(m.fs, paths.Join(snap.Dir, paths.VersionFile))
	if err != nil {
		return nil, fail(err, "failed to read backed up version marker")
	}
	snap.Version = version

	files, err := digestTree(m.fs, snap.Dir)
	if err != nil {
		return nil, fail(err, "failed to hash backup")
	}
	manifest := &Manifest{
		ID:        snap.ID,
		Root:      root,
		CreatedAt: createdAt,
		Version:   string(version),
		Files:     files,
	}
	if err := writeManifest(m.fs, snap.Dir, manifest); err != nil {
		return nil, fail(err, "failed to write %s", ManifestFile)
	}

	logger.Info().Int("files", len(files)).Msg("Backup created")
	return snap, nil
}

// Load rehydrates a snapshot from its directory for manual recovery.
func (m *Manager) Load(dir string) (*Snapshot, error) {
	if !filesystem.IsDir(m.fs, dir) {
		return nil, errors.Newf(errors.ErrNotFound, "no backup at %s", dir).WithDetail("backup", dir)
	}
	manifest, err := readManifest(m.fs, dir)
	if err != nil {
		return nil, err
	}
	id, root := manifest.ID, manifest.Root
	if id == "" {
		id = paths.BackupID(dir)
	}
	if root == "" {
		root = filepath.Dir(dir)
	}
	return &Snapshot{
		ID:        id,
		Dir:       dir,
		Root:      root,
		CreatedAt: manifest.CreatedAt,
		Version:   types.ParseVersion(manifest.Version),
	}, nil
}

// Verify checks every snapshot file against the manifest digests.
func (m *Manager) Verify(snap *Snapshot) error {
	manifest, err := readManifest(m.fs, snap.Dir)
	if err != nil {
		return err
	}
	return checkManifest(m.fs, snap.Dir, manifest)
}

// Rollback restores root from snap: each category target is deleted and
// copied back from the snapshot, then the version marker is restored or
// removed. The snapshot is checked before the live tree is touched. On
// failure the snapshot directory is kept. On success it is removed, and a
// removal failure is returned as a warning.
func (m *Manager) Rollback(snap *Snapshot, root string) ([]string, error) {
	if err := snap.consume("roll back"); err != nil {
		return nil, err
	}

	logger := m.logger.With().Str("backup", snap.Dir).Logger()
	done := logging.LogOperationStart(logger, "backup.rollback")
	defer done()

	fail := func(err error, format string, args ...interface{}) error {
		return errors.Wrapf(err, errors.ErrRollback, format, args...).WithDetail("backup", snap.Dir)
	}

	if err := m.Verify(snap); err != nil {
		return nil, fail(err, "backup at %s failed its integrity check", snap.Dir)
	}

	for _, category := range m.categories {
		target := paths.Join(root, category.TargetPath)
		if err := m.fs.RemoveAll(target); err != nil {
			return nil, fail(err, "failed to remove %s", category.TargetPath)
		}
		saved := paths.Join(snap.Dir, category.TargetPath)
		if !filesystem.IsDir(m.fs, saved) {
			continue
		}
		if err := filesystem.CopyTree(m.fs, saved, target); err != nil {
			return nil, fail(err, "failed to restore %s", category.TargetPath)
		}
		logger.Debug().Str("category", category.Name).Msg("Category restored")
	}

	for _, rel := range append([]string{paths.VersionFile}, m.userFiles...) {
		saved := paths.Join(snap.Dir, rel)
		live := paths.Join(root, rel)
		ok, err := filesystem.Exists(m.fs, saved)
		if err != nil {
			return nil, fail(err, "failed to check backup of %s", rel)
		}
		if ok {
			if err := filesystem.CopyFile(m.fs, saved, live); err != nil {
				return nil, fail(err, "failed to restore %s", rel)
			}
			continue
		}
		exists, err := filesystem.Exists(m.fs, live)
		if err != nil {
			return nil, fail(err, "failed to check %s", rel)
		}
		if exists {
			if err := m.fs.Remove(live); err != nil {
				return nil, fail(err, "failed to remove %s", rel)
			}
		}
	}

	logger.Info().Msg("Rollback complete")

	var warnings []string
	if err := m.fs.RemoveAll(snap.Dir); err != nil {
		logger.Warn().Err(err).Msg("Failed to remove backup after rollback")
		warnings = append(warnings, "failed to remove backup "+snap.Dir+": "+err.Error())
	}
	return warnings, nil
}

// Cleanup removes the snapshot directory after a successful update. The
// caller decides whether a failure matters.
func (m *Manager) Cleanup(snap *Snapshot) error {
	if err := snap.consume("clean up"); err != nil {
		return err
	}
	if err := m.fs.RemoveAll(snap.Dir); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "failed to remove backup %s", snap.Dir).
			WithDetail("backup", snap.Dir)
	}
	m.logger.Debug().Str("backup", snap.Dir).Msg("Backup removed")
	return nil
}

func readMarker(fsys types.FS, path string) (types.Version, error) {
	ok, err := filesystem.Exists(fsys, path)
	if err != nil || !ok {
		return types.VersionUnset, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return types.VersionUnset, err
	}
	return types.ParseVersion(string(data)), nil
}
