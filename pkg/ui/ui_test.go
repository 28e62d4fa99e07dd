package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"github.com/trinity-method/trinity-sdk/pkg/ui"
	"github.com/trinity-method/trinity-sdk/pkg/update"
)

func successResult() *update.Result {
	return &update.Result{
		RunID:     "run-1",
		Phase:     types.PhaseDone,
		Versions:  update.VersionInfo{Installed: "2.0.0", Latest: "2.1.0"},
		Stats:     map[string]int{"agents": 5, "commands": 3},
		Total:     8,
		Preserved: []string{"trinity/knowledge-base/ISSUES.md"},
	}
}

func TestTextRenderer_Result(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderResult(successResult()))
	out := buf.String()
	assert.Contains(t, out, "Updated 2.0.0 -> 2.1.0 (8 files)")
	assert.Contains(t, out, "agents")
	assert.Contains(t, out, "kept trinity/knowledge-base/ISSUES.md")
	assert.Less(t, strings.Index(out, "agents"), strings.Index(out, "commands"))
}

func TestTextRenderer_States(t *testing.T) {
	tests := []struct {
		name   string
		result *update.Result
		want   string
	}{
		{
			name:   "up to date",
			result: &update.Result{UpToDate: true, Versions: update.VersionInfo{Installed: "2.1.0"}},
			want:   "Already up to date (2.1.0)",
		},
		{
			name:   "dry run",
			result: &update.Result{DryRun: true, Versions: update.VersionInfo{Installed: "2.0.0", Latest: "2.1.0"}},
			want:   "dry run, nothing changed",
		},
		{
			name:   "declined",
			result: &update.Result{Declined: true},
			want:   "Update cancelled",
		},
		{
			name: "rolled back",
			result: &update.Result{
				Failed:      true,
				RolledBack:  true,
				FailedPhase: types.PhaseSyncing,
				Versions:    update.VersionInfo{Installed: "2.0.0"},
			},
			want: "failed in Syncing and was rolled back to 2.0.0",
		},
		{
			name:   "retained backup",
			result: &update.Result{BackupRetained: true, BackupPath: "/p/.trinity-backup-x", Failed: true},
			want:   "WARNING: Backup kept at /p/.trinity-backup-x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ui.NewRenderer(ui.FormatText, &buf).RenderResult(tt.result))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestTextRenderer_Errors(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatText, &buf)

	doubleFault := errors.New(errors.ErrRollback, "rollback failed; restore manually from /p/.trinity-backup-x").
		WithDetail("backup", "/p/.trinity-backup-x")
	require.NoError(t, r.RenderError(doubleFault))
	assert.Contains(t, buf.String(), "CRITICAL: [ROLLBACK]")
	assert.Contains(t, buf.String(), "trinity backup restore /p/.trinity-backup-x")

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrNotDeployed, "not deployed")))
	assert.Contains(t, buf.String(), "ERROR: [NOT_DEPLOYED] not deployed")
	assert.Contains(t, buf.String(), "--dir")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatJSON, &buf)

	require.NoError(t, r.RenderResult(successResult()))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Done", decoded["phase"])
	assert.Equal(t, "2.1.0", decoded["latest"])
	assert.Equal(t, float64(8), decoded["total"])
	assert.NotContains(t, decoded, "failed_phase")

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrSync, "boom").WithDetail("category", "agents")))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "SYNC", decoded["code"])
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	sink := ui.NewSink(ui.FormatText, &buf)

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseEntered, Phase: types.PhaseSyncing})
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: types.PhaseSyncing, Count: 16, Message: "agents=5"})
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseCleaningUp, Severity: types.SeverityWarning, Message: "busy"})
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseDoubleFault, Severity: types.SeverityCritical, Message: "restore from /b"})

	assert.Equal(t, strings.Join([]string{
		"[Syncing] started",
		"[Syncing] success (16 files): agents=5",
		"[CleaningUp] warning: busy",
		"CRITICAL: restore from /b",
		"",
	}, "\n"), buf.String())
}

func TestConfirmer_Text(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		confirm := ui.Confirmer(ui.FormatText, strings.NewReader(tt.input), &out)

		ok, err := confirm(update.VersionInfo{Installed: "2.0.0", Latest: "2.1.0"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q", tt.input)
		assert.Contains(t, out.String(), "Update trinity from 2.0.0 to 2.1.0? [y/N]")
	}
}

func TestTerminalSink(t *testing.T) {
	var buf bytes.Buffer
	sink := ui.NewSink(ui.FormatTerminal, &buf)

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseEntered, Phase: types.PhaseSyncing})
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: types.PhaseDone, Count: 16, Message: "updated"})
	assert.Empty(t, buf.String())

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: types.PhaseSyncing, Count: 16, Message: "agents=5"})
	assert.Contains(t, buf.String(), "Syncing")
	assert.Contains(t, buf.String(), "16 files agents=5")

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseDoubleFault, Severity: types.SeverityCritical, Message: "restore from /b"})
	assert.Contains(t, buf.String(), "CRITICAL: restore from /b")
}

func TestPlainRenderers_StripMarkup(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderMessage("Restored [path]/p[/path] from [path]/p/.trinity-backup-x[/path]"))
	require.NoError(t, r.RenderError(errors.New(errors.ErrBackupStale, "stale").WithDetail("backup", "/p/.trinity-backup-x")))
	assert.Contains(t, buf.String(), "Restored /p from /p/.trinity-backup-x\n")
	assert.Contains(t, buf.String(), "Inspect /p/.trinity-backup-x, then restore it with 'trinity backup restore'")
	assert.NotContains(t, buf.String(), "[path]")
	assert.NotContains(t, buf.String(), "[/cmd]")

	buf.Reset()
	require.NoError(t, ui.NewRenderer(ui.FormatJSON, &buf).RenderMessage("No snapshots in [path]/p[/path]"))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "No snapshots in /p", decoded["message"])
}

func TestTextRenderer_RetainedBackupHint(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatText, &buf)

	err := errors.New(errors.ErrSync, "failed to write WORK-ORDER.md").WithDetail("backup", "/p/.trinity-backup-x")
	require.NoError(t, r.RenderError(err))
	assert.Contains(t, buf.String(), "ERROR: [SYNC]")
	assert.Contains(t, buf.String(), "  Backup kept at /p/.trinity-backup-x.\n")
}
