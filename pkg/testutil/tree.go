package testutil

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Tree maps slash-separated relative paths to file content. Directories are
// recorded with a trailing slash and empty content so empty directories
// count. Symlinks are recorded as "-> target" and not followed.
type Tree map[string]string

// ReadTree snapshots everything below root except backup snapshots.
func ReadTree(t *testing.T, fsys types.FS, root string) Tree {
	t.Helper()
	tree := make(Tree)
	err := filesystem.Walk(fsys, root, func(rel string, entry fs.DirEntry) error {
		top := strings.SplitN(rel, "/", 2)[0]
		if paths.IsBackupName(top) {
			return nil
		}
		if entry.IsDir() {
			tree[rel+"/"] = ""
			return nil
		}
		if filesystem.IsSymlink(entry) {
			target, err := fsys.Readlink(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			tree[rel] = "-> " + target
			return nil
		}
		data, err := fsys.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", root, err)
	}
	return tree
}

// Tree snapshots the deployment root.
func (e *Environment) Tree() Tree {
	e.t.Helper()
	return ReadTree(e.t, e.FS, e.Root)
}
