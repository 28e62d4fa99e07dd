package types

import (
	"io/fs"
)

// FS is the filesystem interface required for update operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Symlink operations. Lstat falls back to Stat on filesystems without
	// link support.
	Lstat(name string) (fs.FileInfo, error)
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
}

// SourceEntry is one entry of a template category listing. Path is
// slash-separated and relative to the category source path.
type SourceEntry struct {
	Path string
	Dir  bool
}

// TemplateSource is read-only access to a versioned set of template files.
// Category paths are slash-separated and relative to the template root.
type TemplateSource interface {
	// HasCategory reports whether the category source path exists.
	HasCategory(categoryPath string) bool

	// ListFiles walks the category source path and returns its entries in
	// lexical pre-order: a directory always precedes its contents.
	ListFiles(categoryPath string) ([]SourceEntry, error)

	// ReadFile returns the content of a file below a category path.
	ReadFile(categoryPath, relPath string) ([]byte, error)

	// ManifestVersion returns the version published by the source.
	ManifestVersion() (Version, error)
}

// ProgressSink receives phase events. Implementations render or record
// them; the lifecycle never formats text itself.
type ProgressSink interface {
	Emit(event ProgressEvent)
}
