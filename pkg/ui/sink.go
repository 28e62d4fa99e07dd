package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/trinity-method/trinity-sdk/pkg/progress"
	"github.com/trinity-method/trinity-sdk/pkg/style"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// NewSink returns the progress sink for format. JSON output has no live
// progress; the final result carries everything.
func NewSink(format Format, w io.Writer) types.ProgressSink {
	switch Resolve(format, w) {
	case FormatTerminal:
		return &TerminalSink{w: w}
	case FormatJSON:
		return progress.Nop
	default:
		return &TextSink{w: w}
	}
}

// TerminalSink prints one styled line per finished phase. The final
// Done event is left to the result renderer.
type TerminalSink struct {
	w io.Writer
}

func (s *TerminalSink) Emit(event types.ProgressEvent) {
	status := style.EventStatus(event)
	switch {
	case status == style.StatusRunning:
		return
	case status == style.StatusSuccess && event.Phase.IsTerminal():
		// The result renderer prints the summary.
		return
	}

	switch status {
	case style.StatusWarning:
		fmt.Fprintln(s.w, pterm.Warning.Sprint(event.Message))
	case style.StatusCritical:
		fmt.Fprintln(s.w, pterm.Error.Sprint("CRITICAL: "+event.Message))
	default:
		fmt.Fprintln(s.w, style.RenderPhaseLine(event.Phase, status, event.Count, event.Message))
	}
}

// TextSink prints unstyled progress lines.
type TextSink struct {
	w io.Writer
}

func (s *TextSink) Emit(event types.ProgressEvent) {
	status := style.EventStatus(event)
	switch status {
	case style.StatusRunning:
		fmt.Fprintf(s.w, "[%s] started\n", event.Phase)
		return
	case style.StatusCritical:
		fmt.Fprintf(s.w, "CRITICAL: %s\n", event.Message)
		return
	}

	line := fmt.Sprintf("[%s] %s", event.Phase, status)
	if event.Count > 0 {
		line += fmt.Sprintf(" (%d files)", event.Count)
	}
	if event.Message != "" {
		line += ": " + event.Message
	}
	fmt.Fprintln(s.w, line)
}
