package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
)

// Environment variable names
const (
	EnvTargetRoot = "TRINITY_TARGET_ROOT"
	EnvConfigDir  = "TRINITY_CONFIG_DIR"
	EnvDataDir    = "TRINITY_DATA_DIR"
)

// Deployment layout. These are relative to the deployment root.
const (
	// AppDirName is the directory name used below XDG base directories
	AppDirName = "trinity"

	MarkerDir        = "trinity"
	AgentDir         = ".claude"
	VersionFile      = "trinity/VERSION"
	AgentsDir        = ".claude/agents"
	CommandsDir      = ".claude/commands"
	TemplatesDir     = "trinity/templates"
	KnowledgeBaseDir = "trinity/knowledge-base"

	// BackupPrefix names snapshot directories: BackupPrefix + snapshot id
	BackupPrefix = ".trinity-backup-"

	// RootConfigFile is the per-deployment configuration file
	RootConfigFile = ".trinity.toml"
)

// Paths resolves layout paths below one deployment root.
type Paths struct {
	root string
}

// New creates a Paths for root. An empty root falls back to
// TRINITY_TARGET_ROOT and then to the current directory.
func New(root string) (*Paths, error) {
	if root == "" {
		root = os.Getenv(EnvTargetRoot)
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
		}
		root = cwd
	}

	abs, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", root)
	}
	return &Paths{root: abs}, nil
}

// Root returns the absolute deployment root.
func (p *Paths) Root() string {
	return p.root
}

// Join returns the OS path of a slash-separated layout path.
func (p *Paths) Join(rel string) string {
	return Join(p.root, rel)
}

// MarkerDir returns the trinity/ directory whose presence marks a
// deployment.
func (p *Paths) MarkerDir() string { return p.Join(MarkerDir) }

// Join returns the OS path of the slash-separated rel below root.
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// BackupDir returns the snapshot directory for id below root.
func BackupDir(root, id string) string {
	return filepath.Join(root, BackupPrefix+id)
}

// RootConfigPath returns the per-deployment config file below root.
func RootConfigPath(root string) string {
	return filepath.Join(root, RootConfigFile)
}

// IsBackupName reports whether a directory entry name is a snapshot.
func IsBackupName(name string) bool {
	return strings.HasPrefix(name, BackupPrefix) && len(name) > len(BackupPrefix)
}

// BackupID extracts the snapshot id from a snapshot directory path.
func BackupID(dir string) string {
	return strings.TrimPrefix(filepath.Base(dir), BackupPrefix)
}

// ConfigDir returns the user configuration directory.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// DataDir returns the user data directory.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
