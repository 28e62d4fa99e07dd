package deploy

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Preserver restores user-managed files after synchronization has
// overwritten them with template defaults.
type Preserver struct {
	fs     types.FS
	files  []string
	logger zerolog.Logger
}

// Captured holds user-managed file contents read before synchronization,
// keyed by root-relative path.
type Captured map[string][]byte

// NewPreserver creates a preserver for the given root-relative files.
func NewPreserver(fsys types.FS, files []string) *Preserver {
	return &Preserver{
		fs:     fsys,
		files:  files,
		logger: logging.GetLogger("deploy.preserve"),
	}
}

// Preserve copies every user-managed file present in backupDir over the
// live tree. Files absent from the backup keep whatever synchronization
// wrote. It returns the restored paths.
func (p *Preserver) Preserve(backupDir, root string) ([]string, error) {
	var restored []string
	for _, rel := range p.files {
		src := paths.Join(backupDir, rel)
		ok, err := filesystem.Exists(p.fs, src)
		if err != nil {
			return restored, errors.Wrapf(err, errors.ErrPreserve, "failed to check backup of %s", rel)
		}
		if !ok {
			p.logger.Debug().Str("file", rel).Msg("No user copy in backup, keeping template default")
			continue
		}
		if err := filesystem.CopyFile(p.fs, src, paths.Join(root, rel)); err != nil {
			return restored, errors.Wrapf(err, errors.ErrPreserve, "failed to restore %s", rel).
				WithDetail("path", rel)
		}
		restored = append(restored, rel)
	}
	p.logger.Debug().Int("restored", len(restored)).Msg("User content preserved")
	return restored, nil
}

// Capture reads the user-managed files that currently exist below root.
// It is the in-memory counterpart of a backup for runs without one.
func (p *Preserver) Capture(root string) (Captured, error) {
	captured := make(Captured)
	for _, rel := range p.files {
		data, err := p.fs.ReadFile(paths.Join(root, rel))
		if err != nil {
			if ok, _ := filesystem.Exists(p.fs, paths.Join(root, rel)); !ok {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrPreserve, "failed to read %s", rel)
		}
		captured[rel] = data
	}
	return captured, nil
}

// Restore writes captured content back below root, in list order.
func (p *Preserver) Restore(root string, captured Captured) ([]string, error) {
	var restored []string
	for _, rel := range p.files {
		data, ok := captured[rel]
		if !ok {
			continue
		}
		dst := paths.Join(root, rel)
		if err := p.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return restored, errors.Wrapf(err, errors.ErrPreserve, "failed to create directory for %s", rel)
		}
		if err := p.fs.WriteFile(dst, data, 0644); err != nil {
			return restored, errors.Wrapf(err, errors.ErrPreserve, "failed to restore %s", rel).
				WithDetail("path", rel)
		}
		restored = append(restored, rel)
	}
	return restored, nil
}
