package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/trinity-method/trinity-sdk/pkg/update"
)

func confirmPrompt(info update.VersionInfo) string {
	prompt := fmt.Sprintf("Update trinity from %s to %s?", info.Installed, info.Latest)
	if info.Downgrade {
		prompt = fmt.Sprintf("Version %s is older than the installed %s. Continue anyway?", info.Latest, info.Installed)
	}
	return prompt
}

// Confirmer returns a callback asking the user before an update mutates
// anything. Terminals get an interactive prompt; other formats read a
// y/N answer from in.
func Confirmer(format Format, in io.Reader, out io.Writer) func(update.VersionInfo) (bool, error) {
	if Resolve(format, out) == FormatTerminal {
		return func(info update.VersionInfo) (bool, error) {
			return pterm.DefaultInteractiveConfirm.
				WithDefaultText(confirmPrompt(info)).
				WithDefaultValue(false).
				Show()
		}
	}

	reader := bufio.NewReader(in)
	return func(info update.VersionInfo) (bool, error) {
		if _, err := fmt.Fprintf(out, "%s [y/N]: ", confirmPrompt(info)); err != nil {
			return false, err
		}
		response, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("failed to read user input: %w", err)
		}
		response = strings.ToLower(strings.TrimSpace(response))
		return response == "y" || response == "yes", nil
	}
}
