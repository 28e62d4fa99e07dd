package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// ErrorStyle is used for errors printed outside a renderer.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// MutedStyle renders secondary lines such as per-category counts.
	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor)

	VersionStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	CommandStyle = lipgloss.NewStyle().
			Foreground(AccentColor)
)

// Indent pads s by level steps of two spaces.
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
