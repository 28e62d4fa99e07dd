package update

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/backup"
	"github.com/trinity-method/trinity-sdk/pkg/deploy"
	"github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/logging"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
	"github.com/trinity-method/trinity-sdk/pkg/progress"
	"github.com/trinity-method/trinity-sdk/pkg/types"
	"github.com/trinity-method/trinity-sdk/pkg/verify"
)

// Config contains the collaborators of an Orchestrator. FS and Source are
// required; everything else has a default.
type Config struct {
	FS     types.FS
	Source types.TemplateSource
	Sink   types.ProgressSink

	// Defaults to deploy.DefaultCategories
	Categories []types.ManagedCategory
	// Defaults to deploy.UserManagedFiles
	UserFiles []string
	// Defaults to verify.DefaultChecks
	Checks []verify.Check
	// Snapshot id time source, defaults to time.Now
	Clock func() time.Time
}

// Options controls one run.
type Options struct {
	TargetRoot string
	// Force updates even when the installed version equals the latest.
	Force bool
	// DryRun stops after VersionCheck.
	DryRun bool
	// SkipBackup proceeds without a snapshot. A failure after that point
	// cannot be rolled back.
	SkipBackup bool
	// Confirm, when set, is asked before any mutation. Returning false
	// ends the run without changes.
	Confirm func(VersionInfo) (bool, error)
}

// Result describes a finished run.
type Result struct {
	RunID string
	// Phase is the terminal phase: Done or DoubleFault.
	Phase types.Phase
	// FailedPhase is the phase whose failure ended the run, when Failed.
	FailedPhase types.Phase
	Failed      bool

	Versions VersionInfo
	Stats    map[string]int
	Total    int

	// BackupPath is the snapshot created for this run, if any.
	BackupPath string
	// BackupRetained is true when the snapshot is still on disk.
	BackupRetained bool
	RolledBack     bool

	Preserved []string
	Warnings  []string

	DryRun   bool
	UpToDate bool
	Declined bool
}

// Orchestrator runs updates against deployment roots.
type Orchestrator struct {
	fs         types.FS
	source     types.TemplateSource
	sink       types.ProgressSink
	categories []types.ManagedCategory
	userFiles  []string
	resolver   *VersionResolver
	backups    *backup.Manager
	syncer     func(root string) *deploy.Synchronizer
	preserver  *deploy.Preserver
	verifier   *verify.Verifier
	logger     zerolog.Logger
}

// NewOrchestrator creates an orchestrator from cfg.
func NewOrchestrator(cfg Config) *Orchestrator {
	categories := cfg.Categories
	if categories == nil {
		categories = deploy.DefaultCategories()
	}
	userFiles := cfg.UserFiles
	if userFiles == nil {
		userFiles = deploy.UserManagedFiles
	}
	sink := cfg.Sink
	if sink == nil {
		sink = progress.Nop
	}

	backups := backup.NewManager(cfg.FS, categories, userFiles)
	if cfg.Clock != nil {
		backups = backups.WithClock(cfg.Clock)
	}

	return &Orchestrator{
		fs:         cfg.FS,
		source:     cfg.Source,
		sink:       sink,
		categories: categories,
		userFiles:  userFiles,
		resolver:   NewVersionResolver(cfg.FS, cfg.Source),
		backups:    backups,
		syncer: func(root string) *deploy.Synchronizer {
			return deploy.NewSynchronizer(cfg.FS, cfg.Source, root)
		},
		preserver: deploy.NewPreserver(cfg.FS, userFiles),
		verifier:  verify.NewVerifier(cfg.FS, cfg.Checks),
		logger:    logging.GetLogger("update"),
	}
}

// Run executes one update. The returned Result is never nil. The error
// follows the phase that failed: after a successful rollback it is the
// original failure, after a failed rollback it is a ROLLBACK error joining
// both failures and naming the retained snapshot.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	r := &run{
		o:    o,
		opts: opts,
		root: opts.TargetRoot,
		result: &Result{
			RunID:  uuid.NewString(),
			Phase:  types.PhaseDone,
			DryRun: opts.DryRun,
		},
	}
	r.logger = logging.WithRun(o.logger, r.result.RunID, r.root)

	if r.root == "" {
		return r.result, errors.New(errors.ErrInvalidInput, "no target root given")
	}

	done := logging.LogOperationStart(r.logger, "update")
	defer done()

	return r.execute(ctx)
}

// run is the mutable state of one Run. Only the goroutine executing Run
// touches it.
type run struct {
	o      *Orchestrator
	opts   Options
	root   string
	result *Result
	logger zerolog.Logger

	snapshot *backup.Snapshot
	captured deploy.Captured
	stats    *deploy.UpdateStats
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	o := r.o

	// 1. Preflight
	r.enter(types.PhasePreflight)
	if err := Preflight(o.fs, r.root); err != nil {
		return r.abort(types.PhasePreflight, err)
	}
	r.succeed(types.PhasePreflight, 0, "")

	// 2. VersionCheck
	r.enter(types.PhaseVersionCheck)
	info, err := o.resolver.Resolve(r.root)
	r.result.Versions = info
	if err != nil {
		return r.abort(types.PhaseVersionCheck, err)
	}
	r.logger.Info().
		Str("installed", info.Installed.String()).
		Str("latest", info.Latest.String()).
		Msg("Versions resolved")
	if info.Downgrade {
		r.warn(types.PhaseVersionCheck, fmt.Sprintf("template source version %s is older than installed version %s", info.Latest, info.Installed))
	}
	if info.UpToDate && !r.opts.Force {
		r.result.UpToDate = true
		r.succeed(types.PhaseVersionCheck, 0, fmt.Sprintf("already up to date (%s)", info.Installed))
		return r.result, nil
	}
	r.succeed(types.PhaseVersionCheck, 0, fmt.Sprintf("%s -> %s", info.Installed, info.Latest))
	if r.opts.DryRun {
		return r.result, nil
	}

	// 3. Confirmed
	r.enter(types.PhaseConfirmed)
	if r.opts.Confirm != nil {
		ok, err := r.opts.Confirm(info)
		if err != nil {
			return r.abort(types.PhaseConfirmed, errors.Wrap(err, errors.ErrInvalidInput, "confirmation failed"))
		}
		if !ok {
			r.result.Declined = true
			r.succeed(types.PhaseConfirmed, 0, "update declined")
			return r.result, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return r.abort(types.PhaseConfirmed, errors.Wrap(err, errors.ErrInternal, "update cancelled"))
	}
	r.succeed(types.PhaseConfirmed, 0, "")

	// From here on the run drives to Done or DoubleFault.
	ctx = context.WithoutCancel(ctx)

	// 4. BackingUp
	if r.opts.SkipBackup {
		r.warn(types.PhaseBackingUp, "backup skipped; a failed update cannot be rolled back")
		captured, err := o.preserver.Capture(r.root)
		if err != nil {
			return r.abort(types.PhaseBackingUp, err)
		}
		r.captured = captured
	} else {
		r.enter(types.PhaseBackingUp)
		snap, err := o.backups.Create(r.root)
		if err != nil {
			if dir := errors.DetailString(err, "backup"); dir != "" {
				r.result.BackupPath = dir
				r.result.BackupRetained = true
			}
			return r.abort(types.PhaseBackingUp, err)
		}
		r.snapshot = snap
		r.result.BackupPath = snap.Dir
		r.result.BackupRetained = true
		r.succeed(types.PhaseBackingUp, 0, snap.Dir)
	}

	// 5. Syncing
	r.enter(types.PhaseSyncing)
	r.stats = deploy.NewUpdateStats()
	err = o.syncer(r.root).SyncAll(ctx, o.categories, r.stats)
	r.recordStats()
	if err != nil {
		return r.abort(types.PhaseSyncing, err)
	}
	r.succeed(types.PhaseSyncing, r.result.Total, r.statsSummary())

	// 6. Preserving
	r.enter(types.PhasePreserving)
	var preserved []string
	if r.snapshot != nil {
		preserved, err = o.preserver.Preserve(r.snapshot.Dir, r.root)
	} else {
		preserved, err = o.preserver.Restore(r.root, r.captured)
	}
	r.result.Preserved = preserved
	if err != nil {
		return r.abort(types.PhasePreserving, err)
	}
	r.succeed(types.PhasePreserving, len(preserved), "")

	// 7. WritingVersion
	r.enter(types.PhaseWritingVersion)
	if err := o.fs.WriteFile(paths.Join(r.root, paths.VersionFile), []byte(info.Latest), 0644); err != nil {
		return r.abort(types.PhaseWritingVersion,
			errors.Wrap(err, errors.ErrVersionWrite, "failed to write version marker").
				WithDetail("path", paths.VersionFile))
	}
	r.succeed(types.PhaseWritingVersion, 0, string(info.Latest))

	// 8. Verifying
	r.enter(types.PhaseVerifying)
	warnings, err := o.verifier.Verify(r.root, info.Latest)
	for _, w := range warnings {
		r.warn(types.PhaseVerifying, w)
	}
	if err != nil {
		return r.abort(types.PhaseVerifying, err)
	}
	r.succeed(types.PhaseVerifying, 0, "")

	// 9. CleaningUp
	if r.snapshot != nil {
		r.enter(types.PhaseCleaningUp)
		if err := o.backups.Cleanup(r.snapshot); err != nil {
			r.warn(types.PhaseCleaningUp, err.Error())
		} else {
			r.result.BackupRetained = false
			r.succeed(types.PhaseCleaningUp, 0, "")
		}
	}

	r.result.Phase = types.PhaseDone
	r.emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: types.PhaseDone, Count: r.result.Total,
		Message: fmt.Sprintf("updated %s -> %s", info.Installed, info.Latest)})
	r.logger.Info().Int("files", r.result.Total).Msg("Update complete")
	return r.result, nil
}

// abort ends the run after a failure in phase. Nothing needs undoing
// before Syncing.
func (r *run) abort(phase types.Phase, err error) (*Result, error) {
	if phase.Mutating() {
		return r.rollback(phase, err)
	}
	return r.failClosed(phase, err)
}

// failClosed ends a run that failed before anything was written.
func (r *run) failClosed(phase types.Phase, err error) (*Result, error) {
	r.result.Phase = types.PhaseDone
	r.result.Failed = true
	r.result.FailedPhase = phase
	r.fail(phase, types.SeverityError, err.Error())
	r.logger.Error().Err(err).Str("phase", phase.String()).Msg("Update failed, nothing changed")
	return r.result, err
}

// rollback handles a failure after mutation started.
func (r *run) rollback(phase types.Phase, cause error) (*Result, error) {
	r.result.Failed = true
	r.result.FailedPhase = phase
	r.fail(phase, types.SeverityError, cause.Error())
	r.logger.Error().Err(cause).Str("phase", phase.String()).Msg("Update failed")

	if r.snapshot == nil {
		r.result.Phase = types.PhaseDone
		r.warn(phase, "no backup existed; the deployment may be partially updated and was not rolled back")
		return r.result, cause
	}

	r.enter(types.PhaseRollingBack)
	warnings, err := r.o.backups.Rollback(r.snapshot, r.root)
	if err != nil {
		r.result.Phase = types.PhaseDoubleFault
		r.result.BackupRetained = true
		msg := fmt.Sprintf("rollback failed; restore manually from %s", r.snapshot.Dir)
		r.fail(types.PhaseRollingBack, types.SeverityError, err.Error())
		r.fail(types.PhaseDoubleFault, types.SeverityCritical, msg)
		r.logger.Error().Err(err).Str("backup", r.snapshot.Dir).Msg("Rollback failed")
		return r.result, errors.Wrap(stderrors.Join(cause, err), errors.ErrRollback, msg).
			WithDetail("backup", r.snapshot.Dir).
			WithDetail("phase", phase.String())
	}

	for _, w := range warnings {
		r.warn(types.PhaseRollingBack, w)
	}
	r.result.Phase = types.PhaseDone
	r.result.RolledBack = true
	r.result.BackupRetained = len(warnings) > 0
	r.succeed(types.PhaseRollingBack, 0, "deployment restored")
	r.logger.Info().Str("phase", phase.String()).Msg("Rolled back")
	if r.result.BackupRetained {
		return r.result, withBackup(cause, r.snapshot.Dir)
	}
	return r.result, cause
}

// withBackup records the kept snapshot on err, keeping its code.
func withBackup(err error, dir string) error {
	var te *errors.TrinityError
	if stderrors.As(err, &te) {
		te.WithDetail("backup", dir)
		return err
	}
	return errors.Wrap(err, errors.ErrUnknown, "update rolled back, backup kept").WithDetail("backup", dir)
}

func (r *run) recordStats() {
	r.result.Stats = r.stats.Counts()
	r.result.Total = r.stats.Total()
}

func (r *run) statsSummary() string {
	parts := make([]string, 0, len(r.o.categories))
	for _, c := range r.o.categories {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Name, r.stats.Get(c.Name)))
	}
	return strings.Join(parts, " ")
}

func (r *run) emit(event types.ProgressEvent) {
	r.o.sink.Emit(event)
}

func (r *run) enter(phase types.Phase) {
	r.logger.Debug().Str("phase", phase.String()).Msg("Entering phase")
	r.emit(types.ProgressEvent{Kind: types.EventPhaseEntered, Phase: phase})
}

func (r *run) succeed(phase types.Phase, count int, msg string) {
	r.emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: phase, Count: count, Message: msg})
}

func (r *run) fail(phase types.Phase, severity types.Severity, msg string) {
	r.emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: phase, Message: msg, Severity: severity})
}

// warn records a non-fatal problem.
func (r *run) warn(phase types.Phase, msg string) {
	r.result.Warnings = append(r.result.Warnings, msg)
	r.logger.Warn().Str("phase", phase.String()).Msg(msg)
	r.fail(phase, types.SeverityWarning, msg)
}
