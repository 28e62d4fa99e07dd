package trinity

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/trinity-method/trinity-sdk/pkg/backup"
	"github.com/trinity-method/trinity-sdk/pkg/deploy"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		Long:    MsgBackupLong,
		GroupID: "core",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgBackupListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupList(cmd, opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <backup-dir>",
		Short: MsgRestoreShort,
		Long:  MsgRestoreLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupRestore(cmd, opts, args[0])
		},
	})

	return cmd
}

func (s *session) backups() *backup.Manager {
	return backup.NewManager(s.fs, deploy.DefaultCategories(), deploy.UserManagedFiles)
}

func runBackupList(cmd *cobra.Command, opts *rootOptions) error {
	s, err := newSession(cmd, opts, nil)
	if err != nil {
		return err
	}

	manager := s.backups()
	dirs, err := manager.Find(s.paths.Root())
	if err != nil {
		return s.fail(err)
	}
	if len(dirs) == 0 {
		return s.renderer.RenderMessage(fmt.Sprintf(MsgNoBackups, s.paths.Root()))
	}

	for _, dir := range dirs {
		var msg string
		snap, err := manager.Load(dir)
		if err != nil {
			msg = fmt.Sprintf(MsgBackupUnreadable, dir, err)
		} else {
			msg = fmt.Sprintf(MsgBackupItem, dir, snap.Version, snap.CreatedAt.Local().Format(time.DateTime))
		}
		if err := s.renderer.RenderMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// runBackupRestore rolls the deployment back to dir. The target is the
// root recorded in the snapshot unless --dir names one.
func runBackupRestore(cmd *cobra.Command, opts *rootOptions, dir string) error {
	s, err := newSession(cmd, opts, nil)
	if err != nil {
		return err
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return err
	}

	manager := s.backups()
	snap, err := manager.Load(dir)
	if err != nil {
		return s.fail(err)
	}

	root := snap.Root
	if opts.dir != "" {
		root = s.paths.Root()
	}

	log.Info().Str("backup", dir).Str("root", root).Msg("Restoring backup")
	warnings, err := manager.Rollback(snap, root)
	if err != nil {
		return s.fail(err)
	}
	for _, w := range warnings {
		log.Warn().Str("backup", dir).Msg(w)
	}
	return s.renderer.RenderMessage(fmt.Sprintf(MsgRestored, root, dir))
}
