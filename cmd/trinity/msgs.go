package trinity

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Update and roll back Trinity Method deployments"
	MsgUpdateShort     = "Update the deployment to the installed SDK version"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print the CLI build, the version installed in the deployment and the version the SDK publishes."
	MsgBackupShort     = "Inspect and restore update snapshots"
	MsgBackupListShort = "List snapshots in the deployment"
	MsgRestoreShort    = "Restore the deployment from a snapshot"
	MsgCompletionShort = "Generate shell completion script"

	// Output
	MsgBuildFormat      = "trinity %s (commit %s, built %s)\n"
	MsgInstalledFormat  = "installed: %s\n"
	MsgLatestFormat     = "latest:    %s\n"
	MsgNotDeployed      = "not deployed"
	MsgUnavailable      = "unavailable (%v)"
	MsgNoBackups        = "No snapshots in [path]%s[/path]"
	MsgBackupItem       = "[path]%s[/path]  version [version]%s[/version]  created %s"
	MsgBackupUnreadable = "[path]%s[/path]  unreadable: %v"
	MsgRestored         = "Restored [path]%s[/path] from [path]%s[/path]"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrFormat    = "invalid output format: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file layered over the user and deployment config"
	MsgFlagDir        = "Deployment root (default: $TRINITY_TARGET_ROOT or the current directory)"
	MsgFlagFormat     = "Output format: auto, term, text or json"
	MsgFlagSDK        = "SDK installation directory (default: $XDG_DATA_HOME/trinity/sdk)"
	MsgFlagForce      = "Update even when the installed version is current"
	MsgFlagDryRun     = "Show the version comparison without changing anything"
	MsgFlagSkipBackup = "Update without a snapshot; a failure cannot be rolled back"
	MsgFlagYes        = "Do not ask for confirmation"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/backup-long.txt
	msgBackupLongRaw string
	MsgBackupLong    = strings.TrimSpace(msgBackupLongRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
