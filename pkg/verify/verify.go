// Package verify checks a deployment after an update: a fixed, ordered list
// of required paths, then the version marker.
package verify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Criticality decides whether a missing path fails verification.
type Criticality int

const (
	Critical Criticality = iota
	Advisory
)

func (c Criticality) String() string {
	if c == Advisory {
		return "advisory"
	}
	return "critical"
}

// Check is one required path, relative to the deployment root.
type Check struct {
	Path        string
	Description string
	Criticality Criticality
}

// DefaultChecks returns the post-update checks in evaluation order.
func DefaultChecks() []Check {
	return []Check{
		{paths.MarkerDir, "Trinity deployment directory", Critical},
		{paths.VersionFile, "Version marker", Critical},
		{paths.AgentsDir, "Agent directory", Critical},
		{paths.AgentsDir + "/leadership", "Leadership agents", Critical},
		{paths.AgentsDir + "/planning", "Planning agents", Critical},
		{paths.AgentsDir + "/execution", "Execution agents", Critical},
		{paths.CommandsDir, "Command definitions", Critical},
		{paths.TemplatesDir, "Document templates", Critical},
		{paths.KnowledgeBaseDir, "Knowledge base", Critical},
		{paths.KnowledgeBaseDir + "/Trinity.md", "Knowledge base index (Trinity.md)", Critical},
		{paths.KnowledgeBaseDir + "/ARCHITECTURE.md", "Architecture notes", Advisory},
	}
}

// Verifier evaluates checks against a deployment root. It never writes.
type Verifier struct {
	fs     types.FS
	checks []Check
	logger zerolog.Logger
}

// NewVerifier creates a verifier; nil checks means DefaultChecks.
func NewVerifier(fsys types.FS, checks []Check) *Verifier {
	if checks == nil {
		checks = DefaultChecks()
	}
	return &Verifier{
		fs:     fsys,
		checks: checks,
		logger: logging.GetLogger("verify"),
	}
}

// Verify evaluates the checks in order and stops at the first missing
// critical path. Missing advisory paths are returned as warnings. Once all
// paths pass, the version marker must equal expected exactly.
func (v *Verifier) Verify(root string, expected types.Version) ([]string, error) {
	var warnings []string

	for _, check := range v.checks {
		ok, err := filesystem.Exists(v.fs, paths.Join(root, check.Path))
		if err != nil {
			return warnings, errors.Wrapf(err, errors.ErrVerify, "%s: failed to check %s", check.Description, check.Path).
				WithDetail("check", check.Description).
				WithDetail("path", check.Path)
		}
		if ok {
			v.logger.Trace().Str("path", check.Path).Msg("Check passed")
			continue
		}
		if check.Criticality == Advisory {
			v.logger.Warn().Str("path", check.Path).Msg("Advisory check failed")
			warnings = append(warnings, fmt.Sprintf("%s missing (%s)", check.Description, check.Path))
			continue
		}
		return warnings, errors.Newf(errors.ErrVerify, "%s missing (%s)", check.Description, check.Path).
			WithDetail("check", check.Description).
			WithDetail("path", check.Path)
	}

	data, err := v.fs.ReadFile(paths.Join(root, paths.VersionFile))
	if err != nil {
		return warnings, errors.Wrap(err, errors.ErrVerify, "failed to read version marker").
			WithDetail("path", paths.VersionFile)
	}
	if actual := types.Version(data); actual != expected {
		return warnings, errors.Newf(errors.ErrVersionMismatch,
			"version marker reads %q, expected %q", string(actual), string(expected)).
			WithDetail("expected", string(expected)).
			WithDetail("actual", string(actual))
	}
	return warnings, nil
}
