package testutil

import (
	"fmt"

	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// UserContent is the content a user wrote into each user-managed file of a
// deployment built by Deploy.
var UserContent = map[string]string{
	"trinity/knowledge-base/ARCHITECTURE.md":   "# Architecture\nOur services talk over gRPC.\n",
	"trinity/knowledge-base/ISSUES.md":         "# Issues\n- flaky login test\n",
	"trinity/knowledge-base/To-do.md":          "# To-do\n- migrate to v2 schema\n",
	"trinity/knowledge-base/Technical-Debt.md": "# Technical Debt\n- remove legacy adapter\n",
}

// DeployedFiles returns the tree of a completed deployment at version.
func DeployedFiles(version types.Version) map[string]string {
	files := map[string]string{
		"trinity/VERSION":                             string(version),
		".claude/agents/leadership/aly.md":            "aly " + string(version),
		".claude/agents/planning/zen.md":              "zen " + string(version),
		".claude/agents/execution/kil.md":             "kil " + string(version),
		".claude/commands/session/trinity-start.md":   "start " + string(version),
		"trinity/templates/documentation/README.md":   "readme " + string(version),
		"trinity/knowledge-base/Trinity.md":           "trinity " + string(version),
		"trinity/knowledge-base/CODING-PRINCIPLES.md": "principles " + string(version),
		"trinity/sessions/2026-01-02-session.md":      "unmanaged session log",
		".claude/settings.json":                       `{"unmanaged": true}`,
	}
	for rel, content := range UserContent {
		files[rel] = content
	}
	return files
}

// Deploy writes a completed deployment at version into the root.
func (e *Environment) Deploy(version types.Version) {
	e.t.Helper()
	e.WriteFiles(e.Root, DeployedFiles(version))
}

// SDKTemplates returns the template tree of a published SDK at version.
// Counts of deployable files: agents 5, commands 3, templates 2,
// knowledge-base 6.
func SDKTemplates(version types.Version) map[string]string {
	v := string(version)
	return map[string]string{
		".claude/agents/leadership/aly.md.template":                    "aly " + v,
		".claude/agents/leadership/aj-maestro.md.template":             "aj " + v,
		".claude/agents/planning/zen.md.template":                      "zen " + v,
		".claude/agents/execution/kil.md.template":                     "kil " + v,
		".claude/agents/execution/bas.md":                              "bas " + v,
		".claude/agents/.DS_Store":                                     "junk",
		".claude/commands/session/trinity-start.md.template":           "start " + v,
		".claude/commands/maintenance/trinity-docs-update.md.template": "docs " + v,
		".claude/commands/infrastructure/trinity-init.md":              "init " + v,
		"trinity/templates/documentation/README.md.template":           "readme " + v,
		"trinity/templates/work-orders/WORK-ORDER.md.template":         "wo " + v,
		"trinity/templates/notes.txt":                                  "not deployed",
		"trinity/knowledge-base/Trinity.md.template":                   "trinity " + v,
		"trinity/knowledge-base/CODING-PRINCIPLES.md.template":         "principles " + v,
		"trinity/knowledge-base/ARCHITECTURE.md.template":              "default architecture " + v,
		"trinity/knowledge-base/ISSUES.md.template":                    "default issues " + v,
		"trinity/knowledge-base/To-do.md.template":                     "default todo " + v,
		"trinity/knowledge-base/Technical-Debt.md.template":            "default debt " + v,
	}
}

// Publish writes an SDK at version with the given template tree.
func (e *Environment) Publish(version types.Version, templates map[string]string) {
	e.t.Helper()
	e.WriteFiles(e.SDKDir, map[string]string{
		"manifest.toml": fmt.Sprintf("version = %q\n", string(version)),
	})
	for rel, content := range templates {
		e.WriteFiles(e.SDKDir, map[string]string{"templates/" + rel: content})
	}
}

// PublishDefault writes an SDK at version with SDKTemplates.
func (e *Environment) PublishDefault(version types.Version) {
	e.t.Helper()
	e.Publish(version, SDKTemplates(version))
}
