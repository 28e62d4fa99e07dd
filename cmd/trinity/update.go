package trinity

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/progress"
	"github.com/trinity-method/trinity-sdk/pkg/templates"
	"github.com/trinity-method/trinity-sdk/pkg/ui"
	"github.com/trinity-method/trinity-sdk/pkg/update"
)

type updateOptions struct {
	sdk        string
	force      bool
	dryRun     bool
	skipBackup bool
	yes        bool
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	u := &updateOptions{}

	cmd := &cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts, u)
		},
	}

	cmd.Flags().StringVar(&u.sdk, "sdk", "", MsgFlagSDK)
	cmd.Flags().BoolVarP(&u.force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&u.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&u.skipBackup, "skip-backup", false, MsgFlagSkipBackup)
	cmd.Flags().BoolVarP(&u.yes, "yes", "y", false, MsgFlagYes)

	return cmd
}

func runUpdate(cmd *cobra.Command, opts *rootOptions, u *updateOptions) error {
	s, err := newSession(cmd, opts, map[string]interface{}{"sdk.path": u.sdk})
	if err != nil {
		return err
	}

	// A missing deployment is reported before the SDK is looked up.
	if err := update.Preflight(s.fs, s.paths.Root()); err != nil {
		return s.fail(err)
	}

	source, err := s.source()
	if err != nil {
		return s.fail(err)
	}

	orchestrator := update.NewOrchestrator(update.Config{
		FS:     s.fs,
		Source: source,
		Sink: progress.Multi(
			ui.NewSink(s.format, s.out),
			progress.NewLogSink(logging.GetLogger("progress")),
		),
	})

	runOpts := update.Options{
		TargetRoot: s.paths.Root(),
		Force:      u.force,
		DryRun:     u.dryRun,
		SkipBackup: u.skipBackup,
	}
	if !u.yes && !s.cfg.Update.AssumeYes {
		promptOut := s.out
		if s.format == ui.FormatJSON {
			promptOut = cmd.ErrOrStderr()
		}
		runOpts.Confirm = ui.Confirmer(s.format, cmd.InOrStdin(), promptOut)
	}

	log.Info().
		Str("root", runOpts.TargetRoot).
		Str("sdk", source.Root()).
		Bool("force", u.force).
		Bool("dry_run", u.dryRun).
		Bool("skip_backup", u.skipBackup).
		Msg("Starting update")

	result, err := orchestrator.Run(cmd.Context(), runOpts)
	if renderErr := s.renderer.RenderResult(result); renderErr != nil {
		log.Warn().Err(renderErr).Msg("Failed to render update result")
	}
	if err != nil {
		return s.fail(err)
	}
	return nil
}

// source opens the SDK the configuration points at.
func (s *session) source() (*templates.DirSource, error) {
	dir, err := templates.Locate(s.fs, s.cfg.SDK.Path)
	if err != nil {
		return nil, err
	}
	return templates.NewDirSource(s.fs, dir), nil
}

// versions returns display strings for the installed and the published
// version. Lookup failures are shown instead of returned.
func (s *session) versions() (installed, latest string) {
	installed = MsgNotDeployed
	if filesystem.IsDir(s.fs, s.paths.MarkerDir()) {
		v, err := update.NewVersionResolver(s.fs, nil).Installed(s.paths.Root())
		if err != nil {
			installed = fmt.Sprintf(MsgUnavailable, err)
		} else {
			installed = v.String()
		}
	}

	source, err := s.source()
	if err == nil {
		v, verr := source.ManifestVersion()
		latest, err = v.String(), verr
	}
	if err != nil {
		latest = fmt.Sprintf(MsgUnavailable, err)
	}
	return installed, latest
}
