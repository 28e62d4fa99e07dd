package update

import (
	"strings"

	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"golang.org/x/mod/semver"
)

// VersionInfo is the outcome of a version check.
type VersionInfo struct {
	Installed types.Version
	Latest    types.Version
	// UpToDate is true only when Installed equals Latest exactly.
	UpToDate bool
	// Downgrade is true when both versions are semantic versions and
	// Latest is lower. It is informational only.
	Downgrade bool
}

// VersionResolver compares the deployed version marker with the version
// published by the template source.
type VersionResolver struct {
	fs     types.FS
	source types.TemplateSource
}

// NewVersionResolver creates a resolver.
func NewVersionResolver(fsys types.FS, source types.TemplateSource) *VersionResolver {
	return &VersionResolver{fs: fsys, source: source}
}

// Installed reads the version marker below root. A missing marker yields
// VersionUnset; an unreadable one is an error.
func (r *VersionResolver) Installed(root string) (types.Version, error) {
	marker := paths.Join(root, paths.VersionFile)
	ok, err := filesystem.Exists(r.fs, marker)
	if err != nil {
		return types.VersionUnset, errors.Wrap(err, errors.ErrVersionRead, "failed to check version marker").
			WithDetail("path", marker)
	}
	if !ok {
		return types.VersionUnset, nil
	}
	data, err := r.fs.ReadFile(marker)
	if err != nil {
		return types.VersionUnset, errors.Wrap(err, errors.ErrVersionRead, "failed to read version marker").
			WithDetail("path", marker)
	}
	return types.ParseVersion(string(data)), nil
}

// Resolve reads both versions. Any template source failure is a
// VERSION_SOURCE error.
func (r *VersionResolver) Resolve(root string) (VersionInfo, error) {
	installed, err := r.Installed(root)
	if err != nil {
		return VersionInfo{}, err
	}
	latest, err := r.source.ManifestVersion()
	if err != nil {
		if !errors.IsErrorCode(err, errors.ErrVersionSource) {
			err = errors.Wrap(err, errors.ErrVersionSource, "failed to read template source version")
		}
		return VersionInfo{Installed: installed}, err
	}
	return VersionInfo{
		Installed: installed,
		Latest:    latest,
		UpToDate:  installed == latest,
		Downgrade: isDowngrade(installed, latest),
	}, nil
}

func isDowngrade(installed, latest types.Version) bool {
	a, b := canonical(installed), canonical(latest)
	if a == "" || b == "" {
		return false
	}
	return semver.Compare(b, a) < 0
}

// canonical returns v as a "v"-prefixed semantic version, or "" when v is
// not one.
func canonical(v types.Version) string {
	s := string(v)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return ""
	}
	return s
}
