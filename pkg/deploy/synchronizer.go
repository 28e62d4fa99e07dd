package deploy

import (
	"context"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Synchronizer copies template categories into a deployment root.
type Synchronizer struct {
	fs     types.FS
	source types.TemplateSource
	root   string
	logger zerolog.Logger
}

// NewSynchronizer creates a synchronizer writing below root.
func NewSynchronizer(fsys types.FS, source types.TemplateSource, root string) *Synchronizer {
	return &Synchronizer{
		fs:     fsys,
		source: source,
		root:   root,
		logger: logging.GetLogger("deploy.sync"),
	}
}

// Sync deploys one category. A category missing from the template source
// is skipped without error. The first write failure aborts the category.
func (s *Synchronizer) Sync(ctx context.Context, category types.ManagedCategory, stats *UpdateStats) error {
	logger := s.logger.With().Str("category", category.Name).Logger()

	if !s.source.HasCategory(category.SourcePath) {
		logger.Info().Str("source", category.SourcePath).Msg("Category not present in template source, skipping")
		return nil
	}

	entries, err := s.source.ListFiles(category.SourcePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSync, "failed to list %s templates", category.Name).
			WithDetail("category", category.Name)
	}

	targetRoot := paths.Join(s.root, category.TargetPath)
	if err := s.fs.MkdirAll(targetRoot, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "failed to create %s", category.TargetPath).
			WithDetail("category", category.Name)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, errors.ErrSync, "%s sync interrupted", category.Name).
				WithDetail("category", category.Name)
		}

		target := paths.Join(targetRoot, entry.Path)
		if entry.Dir {
			if err := s.fs.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrSync, "failed to create directory %s", entry.Path).
					WithDetail("category", category.Name)
			}
			continue
		}

		deployed, ok := selectFile(category.Selector, path.Base(entry.Path))
		if !ok {
			logger.Trace().Str("file", entry.Path).Msg("Not deployable, ignoring")
			continue
		}

		if err := s.copy(category, entry.Path, filepath.Join(filepath.Dir(target), deployed)); err != nil {
			return err
		}
		stats.Inc(category.Name)
	}

	logger.Debug().Int("files", stats.Get(category.Name)).Msg("Category synchronized")
	return nil
}

func (s *Synchronizer) copy(category types.ManagedCategory, relPath, dst string) error {
	data, err := s.source.ReadFile(category.SourcePath, relPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSync, "failed to read template %s", relPath).
			WithDetail("category", category.Name)
	}
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "failed to create directory for %s", dst).
			WithDetail("category", category.Name)
	}
	if err := s.fs.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "failed to write %s", dst).
			WithDetail("category", category.Name).
			WithDetail("path", dst)
	}
	return nil
}

// SyncAll runs one synchronizer per category concurrently. It always waits
// for every synchronizer to return, so the target tree is quiescent when it
// does; the first failure is returned and stops the others early.
func (s *Synchronizer) SyncAll(ctx context.Context, categories []types.ManagedCategory, stats *UpdateStats) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		category := category
		g.Go(func() error {
			return s.Sync(gctx, category, stats)
		})
	}
	return g.Wait()
}

func selectFile(selector types.FileSelector, name string) (string, bool) {
	if selector == nil {
		return name, true
	}
	return selector(name)
}
