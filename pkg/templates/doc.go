// Package templates provides the template source the update lifecycle reads
// from: an installed SDK directory holding a version manifest and a
// templates/ tree that mirrors the deployed layout.
//
//	<sdk>/
//	  manifest.toml        version = "2.1.0"
//	  templates/
//	    .claude/agents/...
//	    .claude/commands/...
//	    trinity/templates/...
//	    trinity/knowledge-base/...
//
// SDKs distributed as npm packages carry package.json instead of
// manifest.toml; its "version" field is used as a fallback.
package templates
