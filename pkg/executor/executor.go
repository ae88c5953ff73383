// Package executor runs an ordered plan of steps with the destructive-action
// gate, pre-mutation snapshotting, and the port-release post-check.
//
// Two invariants hold unconditionally: dry modes never execute a command or
// mutate any state, and a destructive step never runs without either an
// explicit authorization flag or a per-step interactive confirmation. A
// failed step never aborts the rest of the plan; every outcome is recorded
// on the step itself.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/ports"
	"github.com/caio-ramos/envdoctor/pkg/shellexec"
	"github.com/caio-ramos/envdoctor/pkg/snapshot"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

const (
	reasonNeedsApproval      = "needs explicit approval"
	reasonNonInteractiveSkip = "non-interactive mode: destructive step skipped"
)

// Options configures an Executor.
type Options struct {
	Runner    shellexec.Runner
	Snapshots *snapshot.Manager
	Prober    ports.Prober

	// Classifier maps failure output to a message; defaults to
	// PatternClassifier.
	Classifier Classifier

	// Poll overrides the port-release poll budget; zero values take the
	// defaults.
	Poll ports.PollOptions

	Logger zerolog.Logger
}

// Executor orchestrates step execution for one run.
type Executor struct {
	runner     shellexec.Runner
	snapshots  *snapshot.Manager
	prober     ports.Prober
	classifier Classifier
	poll       ports.PollOptions
	logger     zerolog.Logger
}

// New creates an executor. Runner and Snapshots are required; the rest
// default sensibly.
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = PatternClassifier{}
	}

	poll := opts.Poll
	if poll.Interval == 0 && poll.MaxWait == 0 {
		poll = ports.DefaultPollOptions()
	}

	return &Executor{
		runner:     opts.Runner,
		snapshots:  opts.Snapshots,
		prober:     opts.Prober,
		classifier: classifier,
		poll:       poll,
		logger:     logger,
	}
}

// ExecutePlan processes steps strictly in the order given and returns the
// final step list. The plan's ordering is a planning-layer concern; the
// executor preserves whatever order it receives.
func (e *Executor) ExecutePlan(ctx context.Context, rc types.RunContext, runID string, steps []types.Step) []types.Step {
	results := make([]types.Step, 0, len(steps))

	for _, step := range steps {
		result := e.executeStep(ctx, rc, runID, step)
		results = append(results, result)
	}

	return results
}

func (e *Executor) executeStep(ctx context.Context, rc types.RunContext, runID string, step types.Step) types.Step {
	start := time.Now()
	defer logging.LogDuration(start, "step "+step.ID)

	e.logger.Debug().
		Str("step", step.ID).
		Str("mode", string(rc.Mode)).
		Bool("destructive", step.Destructive).
		Msg("Processing step")

	// Dry modes record every step with its pre-assigned status and never
	// execute anything, regardless of destructiveness.
	if rc.Mode.Dry() {
		return step
	}

	// Pre-flagged proposed steps stay proposed; only planned steps run.
	if step.Status != types.StatusPlanned {
		return step
	}

	if step.Destructive && !rc.Authorized() {
		if !rc.Interactive {
			step.Status = types.StatusProposed
			step.ProposedReason = reasonNonInteractiveSkip
			return step
		}
		question := fmt.Sprintf("Run destructive step %q?", step.Title)
		if rc.Confirm == nil || !rc.Confirm.Confirm(question) {
			step.Status = types.StatusProposed
			step.ProposedReason = reasonNeedsApproval
			return step
		}
	}

	step.Status = types.StatusRunning

	if step.WantsSnapshot() {
		created, err := e.snapshots.Capture(runID, step.ID, step.SnapshotPaths)
		if err != nil {
			e.logger.Error().Err(err).Str("step", step.ID).Msg("Snapshot failed")
			step.Status = types.StatusFailed
			step.Error = fmt.Sprintf("snapshot failed, refusing to run: %v", err)
			return step
		}
		// Written once per run; never mutated after this point.
		step.SnapshotPaths = created
	}

	transcript, failed := e.runCommands(ctx, rc, step.Commands)
	step.Output = transcript

	if failed != nil {
		step.Status = types.StatusFailed
		step.Error = e.classifier.Classify(step, transcript)
		e.logger.Warn().Str("step", step.ID).Str("command", failed.Command).Msg("Step failed")
		return step
	}

	if step.Kind == types.KindPorts && len(step.Ports) > 0 {
		return e.portPostCheck(ctx, step)
	}

	step.Status = types.StatusSuccess
	return step
}

// runCommands executes commands strictly in order, stopping at the first
// failure. The transcript concatenates every command line with its output
// regardless of where execution stopped.
func (e *Executor) runCommands(ctx context.Context, rc types.RunContext, commands []string) (string, *shellexec.Result) {
	var transcript strings.Builder
	var failed *shellexec.Result

	for _, command := range commands {
		result := e.runner.Run(ctx, rc.WorkDir, command)

		transcript.WriteString("$ " + command + "\n")
		if result.Stdout != "" {
			transcript.WriteString(result.Stdout)
			if !strings.HasSuffix(result.Stdout, "\n") {
				transcript.WriteString("\n")
			}
		}
		if result.Stderr != "" {
			transcript.WriteString(result.Stderr)
			if !strings.HasSuffix(result.Stderr, "\n") {
				transcript.WriteString("\n")
			}
		}

		if !result.Success {
			failed = &result
			break
		}
	}

	return transcript.String(), failed
}

// portPostCheck distinguishes success by observed port liveness, not by
// command exit code: the kill commands can all report success while the
// port stays held.
func (e *Executor) portPostCheck(ctx context.Context, step types.Step) types.Step {
	free, held := ports.PollUntilFree(ctx, e.prober, step.Ports, e.poll)
	if free {
		step.Status = types.StatusSuccess
		return step
	}

	step.Status = types.StatusFailed
	step.Error = fmt.Sprintf(
		"ports still in use after kill: %s; try manually: kill -9 <pid>",
		ports.DescribeHolders(held))
	return step
}
