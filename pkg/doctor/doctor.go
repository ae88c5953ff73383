// Package doctor wires the full pipeline for one invocation: load and
// sanitize config, detect the environment, assemble the plan, execute it,
// and persist the run report. The CLI layer only parses flags and renders.
package doctor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/caio-ramos/envdoctor/pkg/detect"
	"github.com/caio-ramos/envdoctor/pkg/executor"
	"github.com/caio-ramos/envdoctor/pkg/filesystem"
	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/plan"
	"github.com/caio-ramos/envdoctor/pkg/ports"
	"github.com/caio-ramos/envdoctor/pkg/report"
	"github.com/caio-ramos/envdoctor/pkg/shellexec"
	"github.com/caio-ramos/envdoctor/pkg/snapshot"
	"github.com/caio-ramos/envdoctor/pkg/types"
	"github.com/caio-ramos/envdoctor/pkg/undo"
)

// Options configures one run.
type Options struct {
	WorkDir     string
	Mode        types.RunMode
	Deep        bool
	Approve     bool
	Interactive bool
	Confirm     types.Confirmer

	// FS and Runner are injectable for tests; nil means the real ones.
	FS     types.FS
	Runner shellexec.Runner
}

// Run executes one full invocation and returns the persisted report. In
// dry modes nothing executes and nothing is persisted.
func Run(ctx context.Context, opts Options) (*types.RunReport, error) {
	logger := logging.GetLogger("doctor")
	start := time.Now()
	defer logging.LogDuration(start, "run")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	runner := opts.Runner
	if runner == nil {
		runner = shellexec.NewRunner()
	}

	cfg, err := config.Load(opts.WorkDir)
	if err != nil {
		return nil, err
	}

	det := detect.Detect(fsys, opts.WorkDir)
	steps := plan.Assemble(det, cfg)

	runID := report.NewRunID()
	snapshotRoot := resolveSnapshotRoot(opts.WorkDir, cfg)

	rc := types.RunContext{
		WorkDir:      opts.WorkDir,
		SnapshotRoot: snapshotRoot,
		ReportDir:    ResolveReportDir(cfg),
		Mode:         opts.Mode,
		Deep:         opts.Deep,
		Approve:      opts.Approve,
		Interactive:  opts.Interactive,
		Confirm:      opts.Confirm,
	}
	if rc.Confirm == nil {
		rc.Confirm = types.DeclineAll{}
	}

	exec := executor.New(executor.Options{
		Runner:    runner,
		Snapshots: snapshot.New(fsys, opts.WorkDir, snapshotRoot),
		Prober:    ports.LsofProber{Runner: runner, WorkDir: opts.WorkDir},
	})

	finalSteps := exec.ExecutePlan(ctx, rc, runID, steps)

	runReport := &types.RunReport{
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		Mode:         opts.Mode,
		WorkDir:      opts.WorkDir,
		SnapshotRoot: snapshotRoot,
		Detection:    det,
		Steps:        finalSteps,
		Summary:      types.Summarize(finalSteps),
	}

	// Dry modes leave no trace: no snapshots were taken, so persisting a
	// report would only mislead a later undo.
	if opts.Mode.Dry() {
		logger.Info().Str("mode", string(opts.Mode)).Int("steps", len(finalSteps)).Msg("Dry invocation, report not persisted")
		return runReport, nil
	}

	store := report.NewStore(fsys, rc.ReportDir)
	if err := store.Write(runReport); err != nil {
		return nil, err
	}

	logger.Info().
		Str("runId", runID).
		Int("steps", runReport.Summary.Total).
		Int("failed", runReport.Summary.Failed).
		Msg("Run complete")

	return runReport, nil
}

// UndoOptions configures an undo invocation. RunID empty means latest.
type UndoOptions struct {
	WorkDir string
	RunID   string
	FS      types.FS
}

// Undo reads a persisted report and reverses it. A missing report yields a
// result with a nil report and no entries — nothing to undo, not an error.
func Undo(opts UndoOptions) (undo.Result, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	cfg, err := config.Load(opts.WorkDir)
	if err != nil {
		return undo.Result{Entries: []undo.Entry{}}, err
	}

	store := report.NewStore(fsys, ResolveReportDir(cfg))

	var r *types.RunReport
	if opts.RunID == "" {
		r, err = store.Latest()
	} else {
		r, err = store.ByID(opts.RunID)
	}
	if err != nil {
		return undo.Result{Entries: []undo.Entry{}}, err
	}

	engine := undo.New(fsys, opts.WorkDir)
	return engine.Revert(r), nil
}

// Diagnose runs detection and plan assembly only.
func Diagnose(workDir string, fsys types.FS) (types.Detection, []types.Step, error) {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	cfg, err := config.Load(workDir)
	if err != nil {
		return types.Detection{}, nil, err
	}
	det := detect.Detect(fsys, workDir)
	return det, plan.Assemble(det, cfg), nil
}

func resolveSnapshotRoot(workDir string, cfg config.Config) string {
	dir := cfg.SnapshotDir
	if dir == "" {
		dir = filepath.Join(".envdoctor", "snapshots")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workDir, dir)
	}
	return dir
}

// ResolveReportDir returns the configured report directory, defaulting to
// the XDG state home.
func ResolveReportDir(cfg config.Config) string {
	if cfg.ReportDir != "" {
		return cfg.ReportDir
	}
	return filepath.Join(xdg.StateHome, "envdoctor", "reports")
}
