package trinity

import (
	"os"
	"strings"
	"text/template"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/trinity-method/trinity-sdk/pkg/ui"
)

// helpStyled reports whether help text goes to a color terminal.
func helpStyled() bool {
	return ui.DetectFormat(os.Stdout) == ui.FormatTerminal
}

func formatBold(s string) string {
	if !helpStyled() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting registers the help template functions used by
// MsgUsageTemplate.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}
