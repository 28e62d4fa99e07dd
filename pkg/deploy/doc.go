// Package deploy copies template content into a deployment root.
//
// Each managed category (agent prompts, command definitions, document
// templates, knowledge base) is synchronized by the same algorithm: walk the
// category in the template source, mirror directories, and copy every file
// the category's selector accepts, unconditionally overwriting the target.
// Synchronizers know nothing about user-owned files; the Preserver runs
// afterwards and re-asserts ownership of the fixed user-managed list.
package deploy
