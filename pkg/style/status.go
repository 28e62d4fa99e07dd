package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Status of a lifecycle phase as shown to the user
type Status string

const (
	StatusRunning  Status = "running"  // Phase entered
	StatusSuccess  Status = "success"  // Phase completed
	StatusWarning  Status = "warning"  // Non-fatal problem
	StatusError    Status = "error"    // Phase failed
	StatusCritical Status = "critical" // Manual recovery required
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed)
	case StatusCritical:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// EventStatus maps a progress event to its display status.
func EventStatus(event types.ProgressEvent) Status {
	switch event.Kind {
	case types.EventPhaseEntered:
		return StatusRunning
	case types.EventPhaseSucceeded:
		return StatusSuccess
	}
	switch event.Severity {
	case types.SeverityWarning:
		return StatusWarning
	case types.SeverityCritical:
		return StatusCritical
	default:
		return StatusError
	}
}

// RenderPhaseLine renders one phase status line
func RenderPhaseLine(phase types.Phase, status Status, count int, message string) string {
	name := fmt.Sprintf("%-15s", phase.String())
	styledName := StatusStyle(status).Sprint(name)

	detail := message
	if count > 0 {
		detail = strings.TrimSpace(fmt.Sprintf("%d files %s", count, message))
	}
	if detail == "" {
		detail = string(status)
	}
	return fmt.Sprintf("    %s : %s", styledName, detail)
}
