package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/templates"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// Environment is a deployment root and an SDK directory sharing one FS.
type Environment struct {
	FS     types.FS
	Root   string
	SDKDir string
	Type   EnvType

	t *testing.T
}

// NewEnvironment creates an empty environment.
func NewEnvironment(t *testing.T, envType EnvType) *Environment {
	t.Helper()

	env := &Environment{t: t, Type: envType}
	switch envType {
	case EnvIsolated:
		base := t.TempDir()
		env.FS = filesystem.NewOS()
		env.Root = filepath.Join(base, "project")
		env.SDKDir = filepath.Join(base, "sdk")
	default:
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
		env.Root = "/project"
		env.SDKDir = "/sdk"
	}

	env.mkdir(env.Root)
	env.mkdir(env.SDKDir)
	return env
}

func (e *Environment) mkdir(dir string) {
	e.t.Helper()
	if err := e.FS.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WriteFiles writes slash-separated relative files below base.
func (e *Environment) WriteFiles(base string, files map[string]string) {
	e.t.Helper()
	for rel, content := range files {
		path := paths.Join(base, rel)
		e.mkdir(filepath.Dir(path))
		if err := e.FS.WriteFile(path, []byte(content), 0644); err != nil {
			e.t.Fatalf("write %s: %v", path, err)
		}
	}
}

// WriteFile writes one file below the deployment root.
func (e *Environment) WriteFile(rel, content string) {
	e.t.Helper()
	e.WriteFiles(e.Root, map[string]string{rel: content})
}

// ReadFile reads one file below the deployment root.
func (e *Environment) ReadFile(rel string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(paths.Join(e.Root, rel))
	if err != nil {
		e.t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Symlink creates a link at rel below the deployment root pointing at
// target. Only EnvIsolated environments support links.
func (e *Environment) Symlink(target, rel string) {
	e.t.Helper()
	path := paths.Join(e.Root, rel)
	e.mkdir(filepath.Dir(path))
	if err := e.FS.Symlink(target, path); err != nil {
		e.t.Fatalf("symlink %s: %v", rel, err)
	}
}

// Exists reports whether rel exists below the deployment root.
func (e *Environment) Exists(rel string) bool {
	ok, _ := filesystem.Exists(e.FS, paths.Join(e.Root, rel))
	return ok
}

// Remove deletes rel (recursively) below the deployment root.
func (e *Environment) Remove(rel string) {
	e.t.Helper()
	if err := e.FS.RemoveAll(paths.Join(e.Root, rel)); err != nil {
		e.t.Fatalf("remove %s: %v", rel, err)
	}
}

// Source returns a template source over the SDK directory.
func (e *Environment) Source() *templates.DirSource {
	return templates.NewDirSource(e.FS, e.SDKDir)
}

// Backups returns the snapshot directories currently below the root.
func (e *Environment) Backups() []string {
	e.t.Helper()
	entries, err := e.FS.ReadDir(e.Root)
	if err != nil {
		e.t.Fatalf("read root: %v", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && paths.IsBackupName(entry.Name()) {
			dirs = append(dirs, filepath.Join(e.Root, entry.Name()))
		}
	}
	return dirs
}
