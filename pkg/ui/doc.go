// Package ui renders update progress and results for people and machines.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui
