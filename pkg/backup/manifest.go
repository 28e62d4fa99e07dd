package backup

import (
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the snapshot manifest name, at the snapshot top level.
const ManifestFile = "snapshot.yaml"

// Manifest describes a snapshot on disk.
type Manifest struct {
	ID        string       `yaml:"id"`
	Root      string       `yaml:"root"`
	CreatedAt time.Time    `yaml:"created_at"`
	Version   string       `yaml:"version,omitempty"`
	Files     []FileDigest `yaml:"files"`
}

// FileDigest is one snapshot file. Path is slash-separated and relative to
// the snapshot directory. For a symlink the digest covers the link target.
type FileDigest struct {
	Path   string `yaml:"path"`
	Size   int64  `yaml:"size"`
	BLAKE3 string `yaml:"blake3"`
	Link   bool   `yaml:"link,omitempty"`
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestTree hashes every file below dir except the manifest itself.
func digestTree(fsys types.FS, dir string) ([]FileDigest, error) {
	var files []FileDigest
	err := filesystem.Walk(fsys, dir, func(rel string, entry fs.DirEntry) error {
		if entry.IsDir() || rel == ManifestFile {
			return nil
		}
		link := filesystem.IsSymlink(entry)
		data, err := readEntry(fsys, filepath.Join(dir, filepath.FromSlash(rel)), link)
		if err != nil {
			return err
		}
		files = append(files, FileDigest{Path: rel, Size: int64(len(data)), BLAKE3: digest(data), Link: link})
		return nil
	})
	return files, err
}

// readEntry returns the bytes a digest covers: file content, or the target
// of a link.
func readEntry(fsys types.FS, path string, link bool) ([]byte, error) {
	if !link {
		return fsys.ReadFile(path)
	}
	target, err := fsys.Readlink(path)
	if err != nil {
		return nil, err
	}
	return []byte(target), nil
}

func writeManifest(fsys types.FS, dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return fsys.WriteFile(filepath.Join(dir, ManifestFile), data, 0644)
}

func readManifest(fsys types.FS, dir string) (*Manifest, error) {
	data, err := fsys.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSnapshotCorrupt, "failed to read %s", ManifestFile).
			WithDetail("backup", dir)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSnapshotCorrupt, "failed to parse %s", ManifestFile).
			WithDetail("backup", dir)
	}
	return &m, nil
}

// checkManifest compares every recorded file against its digest.
func checkManifest(fsys types.FS, dir string, m *Manifest) error {
	for _, f := range m.Files {
		data, err := readEntry(fsys, filepath.Join(dir, filepath.FromSlash(f.Path)), f.Link)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSnapshotCorrupt, "snapshot file %s unreadable", f.Path).
				WithDetail("backup", dir).
				WithDetail("path", f.Path)
		}
		if int64(len(data)) != f.Size || digest(data) != f.BLAKE3 {
			return errors.Newf(errors.ErrSnapshotCorrupt, "snapshot file %s does not match its digest", f.Path).
				WithDetail("backup", dir).
				WithDetail("path", f.Path)
		}
	}
	return nil
}
