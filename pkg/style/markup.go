package style

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Markup tags accepted in messages and hints, e.g. "[path]/srv/app[/path]".
// Tags do not nest.
const (
	TagPath    = "path"
	TagVersion = "version"
	TagCommand = "cmd"
)

type tag struct {
	pattern *regexp.Regexp
	style   lipgloss.Style
}

var tags = []tag{
	newTag(TagPath, PathStyle),
	newTag(TagVersion, VersionStyle),
	newTag(TagCommand, CommandStyle),
}

func newTag(name string, style lipgloss.Style) tag {
	return tag{
		pattern: regexp.MustCompile(`\[` + name + `\](.*?)\[/` + name + `\]`),
		style:   style,
	}
}

// Render replaces markup tags in text with their styles.
func Render(text string) string {
	return replaceTags(text, func(t tag, content string) string {
		return t.style.Render(content)
	})
}

// Strip removes markup tags and keeps their content, for plain output.
func Strip(text string) string {
	return replaceTags(text, func(_ tag, content string) string {
		return content
	})
}

// Wrap surrounds s with the markup tag name.
func Wrap(name, s string) string {
	return "[" + name + "]" + s + "[/" + name + "]"
}

func replaceTags(text string, fn func(tag, string) string) string {
	for _, t := range tags {
		text = t.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return fn(t, t.pattern.FindStringSubmatch(match)[1])
		})
	}
	return text
}
