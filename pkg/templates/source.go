package templates

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

const (
	ManifestFile = "manifest.toml"
	PackageFile  = "package.json"
	TemplatesDir = "templates"

	// DefaultSDKDirName is the SDK directory below paths.DataDir
	DefaultSDKDirName = "sdk"
)

type manifest struct {
	Version string `toml:"version" json:"version"`
}

// DirSource implements types.TemplateSource over an SDK directory.
type DirSource struct {
	fs   types.FS
	root string
}

// NewDirSource creates a source rooted at an SDK installation directory.
func NewDirSource(fsys types.FS, root string) *DirSource {
	return &DirSource{fs: fsys, root: root}
}

// Root returns the SDK directory.
func (s *DirSource) Root() string {
	return s.root
}

func (s *DirSource) categoryDir(categoryPath string) string {
	return filepath.Join(s.root, TemplatesDir, filepath.FromSlash(categoryPath))
}

// HasCategory reports whether the category exists in this SDK.
func (s *DirSource) HasCategory(categoryPath string) bool {
	return filesystem.IsDir(s.fs, s.categoryDir(categoryPath))
}

// ListFiles returns the category's entries in lexical pre-order.
func (s *DirSource) ListFiles(categoryPath string) ([]types.SourceEntry, error) {
	var entries []types.SourceEntry
	err := filesystem.Walk(s.fs, s.categoryDir(categoryPath), func(rel string, entry fs.DirEntry) error {
		entries = append(entries, types.SourceEntry{Path: rel, Dir: entry.IsDir()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVersionSource, "failed to list templates in %s", categoryPath)
	}
	return entries, nil
}

// ReadFile reads one template file.
func (s *DirSource) ReadFile(categoryPath, relPath string) ([]byte, error) {
	return s.fs.ReadFile(filepath.Join(s.categoryDir(categoryPath), filepath.FromSlash(relPath)))
}

// ManifestVersion reads the published version from manifest.toml, falling
// back to package.json.
func (s *DirSource) ManifestVersion() (types.Version, error) {
	var m manifest

	data, err := s.fs.ReadFile(filepath.Join(s.root, ManifestFile))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &m); err != nil {
			return types.VersionUnset, errors.Wrapf(err, errors.ErrVersionSource, "failed to parse %s", ManifestFile).
				WithDetail("sdk", s.root)
		}
	case os.IsNotExist(err):
		data, err = s.fs.ReadFile(filepath.Join(s.root, PackageFile))
		if err != nil {
			return types.VersionUnset, errors.Wrap(err, errors.ErrVersionSource, "no version manifest found").
				WithDetail("sdk", s.root)
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return types.VersionUnset, errors.Wrapf(err, errors.ErrVersionSource, "failed to parse %s", PackageFile).
				WithDetail("sdk", s.root)
		}
	default:
		return types.VersionUnset, errors.Wrapf(err, errors.ErrVersionSource, "failed to read %s", ManifestFile).
			WithDetail("sdk", s.root)
	}

	version := types.ParseVersion(m.Version)
	if !version.IsSet() {
		return types.VersionUnset, errors.New(errors.ErrVersionSource, "version manifest has no version").
			WithDetail("sdk", s.root)
	}
	return version, nil
}

// Locate resolves the SDK directory: the configured path when set,
// otherwise <data dir>/sdk. The directory must exist.
func Locate(fsys types.FS, configured string) (string, error) {
	dir := configured
	if dir == "" {
		dir = filepath.Join(paths.DataDir(), DefaultSDKDirName)
	}
	dir = paths.ExpandHome(dir)
	if !filesystem.IsDir(fsys, dir) {
		return "", errors.Newf(errors.ErrVersionSource, "SDK not found at %s", dir).
			WithDetail("sdk", dir)
	}
	return dir, nil
}
