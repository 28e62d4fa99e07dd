package update

import (
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Preflight checks that root holds a previous deployment: the marker
// directory first, then the agent directory. It stops at the first
// failure and never writes.
func Preflight(fsys types.FS, root string) error {
	if !filesystem.IsDir(fsys, paths.Join(root, paths.MarkerDir)) {
		return errors.Newf(errors.ErrNotDeployed, "%s is not a trinity deployment (no %s/ directory); deploy it before updating", root, paths.MarkerDir).
			WithDetail("root", root)
	}
	if !filesystem.IsDir(fsys, paths.Join(root, paths.AgentDir)) {
		return errors.Newf(errors.ErrAgentDirMissing, "%s has no %s/ directory; the deployment is incomplete, redeploy before updating", root, paths.AgentDir).
			WithDetail("root", root)
	}
	return nil
}
