package trinity

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/trinity-method/trinity-sdk/internal/version"
	"github.com/trinity-method/trinity-sdk/pkg/config"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/filesystem"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"github.com/trinity-method/trinity-sdk/pkg/ui"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	verbosity  int
	configFile string
	dir        string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "trinity",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return stderrors.New(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", MsgFlagDir)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newBackupCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// session is the resolved environment of one command invocation.
type session struct {
	paths    *paths.Paths
	cfg      *config.Config
	fs       types.FS
	format   ui.Format
	renderer ui.Renderer
	out      io.Writer
}

// newSession resolves the deployment root, loads configuration with the
// given flag overrides and picks the output format.
func newSession(cmd *cobra.Command, opts *rootOptions, overrides map[string]interface{}) (*session, error) {
	p, err := paths.New(opts.dir)
	if err != nil {
		return nil, err
	}

	if overrides == nil {
		overrides = map[string]interface{}{}
	}
	overrides["output.format"] = opts.format
	cfg, err := config.LoadFrom(p.Root(), opts.configFile, overrides)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}

	out := cmd.OutOrStdout()
	format = ui.Resolve(format, out)
	log.Debug().
		Str("root", p.Root()).
		Str("format", format.String()).
		Str("sdk", cfg.SDK.Path).
		Msg("Session resolved")

	return &session{
		paths:    p,
		cfg:      cfg,
		fs:       filesystem.NewOS(),
		format:   format,
		renderer: ui.NewRenderer(format, out),
		out:      out,
	}, nil
}

// fail renders err and marks it as reported.
func (s *session) fail(err error) error {
	if renderErr := s.renderer.RenderError(err); renderErr != nil {
		log.Warn().Err(renderErr).Msg("Failed to render error")
		return err
	}
	return &reportedError{err: err}
}

// reportedError is an error the command already showed to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already rendered by the command
// that returned it.
func IsReported(err error) bool {
	var reported *reportedError
	return stderrors.As(err, &reported)
}

// ExitCode maps a command error to the process exit code. A failed
// rollback gets its own code so scripts can tell an inconsistent
// deployment from an ordinary failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsErrorCode(err, errors.ErrRollback):
		return 2
	default:
		return 1
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	var sdk string

	cmd := &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, MsgBuildFormat, version.Version, version.Commit, version.Date); err != nil {
				return err
			}

			s, err := newSession(cmd, opts, map[string]interface{}{"sdk.path": sdk})
			if err != nil {
				return err
			}
			installed, latest := s.versions()
			if _, err := fmt.Fprintf(out, MsgInstalledFormat, installed); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, MsgLatestFormat, latest)
			return err
		},
	}

	cmd.Flags().StringVar(&sdk, "sdk", "", MsgFlagSDK)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
