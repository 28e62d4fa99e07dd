package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pterm/pterm"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/style"
	"github.com/trinity-method/trinity-sdk/pkg/update"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders the summary of an update run
	RenderResult(result *update.Result) error

	// RenderError renders an error with its recovery hints
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format, detecting terminal
// capabilities when format is FormatAuto.
func NewRenderer(format Format, w io.Writer) Renderer {
	switch Resolve(format, w) {
	case FormatTerminal:
		return &terminalRenderer{w: w}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return &jsonRenderer{enc: enc}
	default:
		return &textRenderer{w: w}
	}
}

type lineKind int

const (
	lineInfo lineKind = iota
	lineSuccess
	lineWarning
	lineDetail
)

type line struct {
	kind lineKind
	text string
}

// summarize turns a result into display lines shared by the terminal and
// text renderers.
func summarize(r *update.Result) []line {
	v := r.Versions
	var lines []line

	switch {
	case r.UpToDate:
		lines = append(lines, line{lineSuccess, fmt.Sprintf("Already up to date (%s)", v.Installed)})
	case r.DryRun:
		lines = append(lines, line{lineInfo, fmt.Sprintf("Update available: %s -> %s (dry run, nothing changed)", v.Installed, v.Latest)})
	case r.Declined:
		lines = append(lines, line{lineInfo, "Update cancelled, nothing changed"})
	case r.Failed:
		if r.RolledBack {
			lines = append(lines, line{lineInfo, fmt.Sprintf("Update failed in %s and was rolled back to %s", r.FailedPhase, v.Installed)})
		}
	default:
		lines = append(lines, line{lineSuccess, fmt.Sprintf("Updated %s -> %s (%d files)", v.Installed, style.Wrap(style.TagVersion, string(v.Latest)), r.Total)})
		names := make([]string, 0, len(r.Stats))
		for name := range r.Stats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, line{lineDetail, fmt.Sprintf("%-15s %d", name, r.Stats[name])})
		}
		for _, rel := range r.Preserved {
			lines = append(lines, line{lineDetail, "kept " + rel})
		}
	}

	if r.BackupRetained && r.BackupPath != "" {
		lines = append(lines, line{lineWarning, "Backup kept at " + style.Wrap(style.TagPath, r.BackupPath)})
	}
	for _, w := range r.Warnings {
		lines = append(lines, line{lineWarning, w})
	}
	return lines
}

// errorHint returns the recovery hint for err, if any.
func errorHint(err error) string {
	backup := errors.DetailString(err, "backup")
	path := style.Wrap(style.TagPath, backup)
	switch errors.GetErrorCode(err) {
	case errors.ErrRollback:
		return "The deployment may be inconsistent. Restore it with: " + style.Wrap(style.TagCommand, "trinity backup restore "+backup)
	case errors.ErrBackupStale:
		return fmt.Sprintf("Inspect %s, then restore it with '%s' or delete it.", path, style.Wrap(style.TagCommand, "trinity backup restore"))
	case errors.ErrBackup:
		return fmt.Sprintf("Nothing was changed. The partial backup at %s can be deleted.", path)
	case errors.ErrNotDeployed, errors.ErrAgentDirMissing:
		return "Run the update from the root of a trinity deployment, or pass " + style.Wrap(style.TagCommand, "--dir") + "."
	case errors.ErrNotFound:
		return ""
	}
	if backup != "" {
		return "Backup kept at " + path + "."
	}
	return ""
}

type terminalRenderer struct {
	w io.Writer
}

func (r *terminalRenderer) RenderResult(result *update.Result) error {
	for _, l := range summarize(result) {
		var s string
		switch l.kind {
		case lineSuccess:
			s = pterm.Success.Sprint(style.Render(l.text))
		case lineWarning:
			s = pterm.Warning.Sprint(style.Render(l.text))
		case lineDetail:
			s = style.Indent(style.MutedStyle.Render(style.Strip(l.text)), 2)
		default:
			s = pterm.Info.Sprint(style.Render(l.text))
		}
		if _, err := fmt.Fprintln(r.w, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) RenderError(err error) error {
	prefix := pterm.Error
	if errors.GetErrorCode(err) == errors.ErrRollback {
		prefix = *pterm.Error.WithPrefix(pterm.Prefix{
			Text:  "CRITICAL",
			Style: style.StatusStyle(style.StatusCritical),
		})
	}
	if _, werr := fmt.Fprintln(r.w, prefix.Sprint(err.Error())); werr != nil {
		return werr
	}
	if hint := errorHint(err); hint != "" {
		_, werr := fmt.Fprintln(r.w, style.Indent(style.Render(hint), 1))
		return werr
	}
	return nil
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, style.Render(msg))
	return err
}

type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) RenderResult(result *update.Result) error {
	for _, l := range summarize(result) {
		text := style.Strip(l.text)
		switch l.kind {
		case lineWarning:
			text = "WARNING: " + text
		case lineDetail:
			text = "    " + text
		}
		if _, err := fmt.Fprintln(r.w, text); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderError(err error) error {
	label := "ERROR"
	if errors.GetErrorCode(err) == errors.ErrRollback {
		label = "CRITICAL"
	}
	if _, werr := fmt.Fprintf(r.w, "%s: %v\n", label, err); werr != nil {
		return werr
	}
	if hint := errorHint(err); hint != "" {
		_, werr := fmt.Fprintln(r.w, "  "+style.Strip(hint))
		return werr
	}
	return nil
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, style.Strip(msg))
	return err
}

type jsonRenderer struct {
	enc *json.Encoder
}

type jsonResult struct {
	RunID          string         `json:"run_id"`
	Phase          string         `json:"phase"`
	Failed         bool           `json:"failed"`
	FailedPhase    string         `json:"failed_phase,omitempty"`
	Installed      string         `json:"installed"`
	Latest         string         `json:"latest"`
	UpToDate       bool           `json:"up_to_date"`
	Downgrade      bool           `json:"downgrade,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Declined       bool           `json:"declined,omitempty"`
	RolledBack     bool           `json:"rolled_back,omitempty"`
	Stats          map[string]int `json:"stats,omitempty"`
	Total          int            `json:"total"`
	BackupPath     string         `json:"backup_path,omitempty"`
	BackupRetained bool           `json:"backup_retained,omitempty"`
	Preserved      []string       `json:"preserved,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
}

func (r *jsonRenderer) RenderResult(result *update.Result) error {
	out := jsonResult{
		RunID:          result.RunID,
		Phase:          result.Phase.String(),
		Failed:         result.Failed,
		Installed:      string(result.Versions.Installed),
		Latest:         string(result.Versions.Latest),
		UpToDate:       result.UpToDate,
		Downgrade:      result.Versions.Downgrade,
		DryRun:         result.DryRun,
		Declined:       result.Declined,
		RolledBack:     result.RolledBack,
		Stats:          result.Stats,
		Total:          result.Total,
		BackupPath:     result.BackupPath,
		BackupRetained: result.BackupRetained,
		Preserved:      result.Preserved,
		Warnings:       result.Warnings,
	}
	if result.Failed {
		out.FailedPhase = result.FailedPhase.String()
	}
	return r.enc.Encode(out)
}

func (r *jsonRenderer) RenderError(err error) error {
	return r.enc.Encode(map[string]interface{}{
		"error":   err.Error(),
		"code":    string(errors.GetErrorCode(err)),
		"details": errors.GetErrorDetails(err),
	})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.enc.Encode(map[string]string{"message": style.Strip(msg)})
}
