package types

// RunMode indicates what an invocation is allowed to do.
type RunMode string

const (
	// ModeApply executes the plan for real.
	ModeApply RunMode = "apply"

	// ModeDryRun previews the plan; no command ever executes and no state
	// is mutated.
	ModeDryRun RunMode = "dry-run"

	// ModeDiagnose reports detection and the would-be plan; like dry-run,
	// it never mutates state.
	ModeDiagnose RunMode = "diagnose"
)

// Dry reports whether the mode forbids any execution or mutation.
func (m RunMode) Dry() bool {
	return m != ModeApply
}

// RunContext carries all per-run parameters explicitly. There are no
// ambient globals: working directory, authorization, and interactivity are
// threaded through this value to every core function.
type RunContext struct {
	// WorkDir is the project root every relative path resolves against.
	WorkDir string

	// SnapshotRoot is where this run's snapshots are taken.
	SnapshotRoot string

	// ReportDir is where run reports are persisted.
	ReportDir string

	Mode RunMode

	// Deep and Approve are the two user-supplied opt-ins that authorize
	// destructive steps. Either one satisfies the gate.
	Deep    bool
	Approve bool

	// Interactive is true when a human can answer confirmation prompts.
	Interactive bool

	// Confirm answers per-step confirmation questions. Never nil in a
	// well-formed context; NewRunContext defaults it to DeclineAll.
	Confirm Confirmer
}

// Authorized reports whether destructive steps may execute without a
// per-step prompt.
func (rc RunContext) Authorized() bool {
	return rc.Deep || rc.Approve
}

// NewRunContext fills in the non-interactive defaults.
func NewRunContext(workDir string) RunContext {
	return RunContext{
		WorkDir: workDir,
		Mode:    ModeApply,
		Confirm: DeclineAll{},
	}
}
