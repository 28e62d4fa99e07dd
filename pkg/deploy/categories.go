package deploy

import (
	"strings"

	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// TemplateSuffix marks a deployable template; it is stripped on deploy.
const TemplateSuffix = ".template"

// Category names
const (
	CategoryAgents        = "agents"
	CategoryCommands      = "commands"
	CategoryTemplates     = "templates"
	CategoryKnowledgeBase = "knowledge-base"
)

// UserManagedFiles are knowledge-base files owned by the user. Templates
// ship defaults for them, but an update never replaces existing content.
var UserManagedFiles = []string{
	paths.KnowledgeBaseDir + "/ARCHITECTURE.md",
	paths.KnowledgeBaseDir + "/ISSUES.md",
	paths.KnowledgeBaseDir + "/To-do.md",
	paths.KnowledgeBaseDir + "/Technical-Debt.md",
}

// DefaultCategories returns the managed categories in a stable order.
func DefaultCategories() []types.ManagedCategory {
	content := AnyOf(StripSuffix(TemplateSuffix), Extensions(".md"))
	return []types.ManagedCategory{
		{
			Name:       CategoryAgents,
			SourcePath: paths.AgentsDir,
			TargetPath: paths.AgentsDir,
			Selector:   content,
		},
		{
			Name:       CategoryCommands,
			SourcePath: paths.CommandsDir,
			TargetPath: paths.CommandsDir,
			Selector:   content,
		},
		{
			Name:       CategoryTemplates,
			SourcePath: paths.TemplatesDir,
			TargetPath: paths.TemplatesDir,
			Selector:   AnyOf(StripSuffix(TemplateSuffix), Extensions(".md", ".yaml", ".yml", ".json")),
		},
		{
			Name:       CategoryKnowledgeBase,
			SourcePath: paths.KnowledgeBaseDir,
			TargetPath: paths.KnowledgeBaseDir,
			Selector:   content,
		},
	}
}

// StripSuffix selects files ending in suffix and deploys them without it.
// A file named exactly suffix is not selected.
func StripSuffix(suffix string) types.FileSelector {
	return func(name string) (string, bool) {
		if !strings.HasSuffix(name, suffix) || len(name) == len(suffix) {
			return "", false
		}
		return strings.TrimSuffix(name, suffix), true
	}
}

// Extensions selects files with one of the given extensions and deploys
// them verbatim.
func Extensions(exts ...string) types.FileSelector {
	return func(name string) (string, bool) {
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) && len(name) > len(ext) {
				return name, true
			}
		}
		return "", false
	}
}

// AnyOf returns the result of the first selector that accepts the name.
func AnyOf(selectors ...types.FileSelector) types.FileSelector {
	return func(name string) (string, bool) {
		for _, sel := range selectors {
			if deployed, ok := sel(name); ok {
				return deployed, true
			}
		}
		return "", false
	}
}
