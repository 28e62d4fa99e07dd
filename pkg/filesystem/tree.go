package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// WalkFunc is called for every entry below a walked root. rel is
// slash-separated and relative to the root.
type WalkFunc func(rel string, entry fs.DirEntry) error

// Exists reports whether path exists. Errors other than not-exist are
// returned.
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// Walk visits every entry below root in lexical pre-order. The root itself
// is not visited and symlinked directories are not descended into.
func Walk(fsys types.FS, root string, fn WalkFunc) error {
	return walk(fsys, root, "", fn)
}

func walk(fsys types.FS, root, rel string, fn WalkFunc) error {
	entries, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		childRel := entry.Name()
		if rel != "" {
			childRel = rel + "/" + entry.Name()
		}
		if err := fn(childRel, entry); err != nil {
			return err
		}
		if entry.IsDir() {
			if err := walk(fsys, root, childRel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsSymlink reports whether entry is a symbolic link.
func IsSymlink(entry fs.DirEntry) bool {
	return entry.Type()&fs.ModeSymlink != 0
}

// CopyFile copies a regular file, creating parent directories of dst and
// overwriting dst if present. The source permission bits are kept. A
// symlink at src is copied as a link, not followed.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return CopyLink(fsys, src, dst)
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: is a directory", src)
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := removeLink(fsys, dst); err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, info.Mode().Perm())
}

// CopyLink recreates the symlink src at dst with the same target. Relative
// targets are kept as they are. A file or link at dst is replaced.
func CopyLink(fsys types.FS, src, dst string) error {
	target, err := fsys.Readlink(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if info, err := fsys.Lstat(dst); err == nil {
		if info.IsDir() {
			return fmt.Errorf("link %s: %s is a directory", src, dst)
		}
		if err := fsys.Remove(dst); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return fsys.Symlink(target, dst)
}

// removeLink removes dst when it is a symlink so a write does not go
// through it.
func removeLink(fsys types.FS, dst string) error {
	info, err := fsys.Lstat(dst)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return nil
	}
	return fsys.Remove(dst)
}

// CopyTree mirrors the directory src into dst, creating directories
// (including empty ones) and copying every file. Symlinks are recreated,
// never followed, so a linked directory is copied as a link. Existing files
// in dst are overwritten; files only present in dst are left alone.
func CopyTree(fsys types.FS, src, dst string) error {
	if err := fsys.MkdirAll(dst, 0755); err != nil {
		return err
	}
	return Walk(fsys, src, func(rel string, entry fs.DirEntry) error {
		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(dst, filepath.FromSlash(rel))
		if entry.IsDir() {
			return fsys.MkdirAll(to, 0755)
		}
		copyEntry := CopyFile
		if IsSymlink(entry) {
			copyEntry = CopyLink
		}
		if err := copyEntry(fsys, from, to); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		return nil
	})
}
