package types

// StepStatus is the lifecycle state of a planned step.
//
// Transitions only ever move forward: a step is created as planned or
// proposed, may enter running once the destructive gate passes, and ends
// in exactly one terminal state. Nothing ever transitions backward.
type StepStatus string

const (
	// StatusPlanned is the initial state for a step the executor intends to run.
	StatusPlanned StepStatus = "planned"

	// StatusProposed means the step will not run: either the builder created
	// it as advisory-only, or the destructive gate withheld execution.
	StatusProposed StepStatus = "proposed"

	// StatusRunning means commands are currently executing.
	StatusRunning StepStatus = "running"

	// StatusSuccess means every command succeeded and any post-check passed.
	StatusSuccess StepStatus = "success"

	// StatusFailed means a command failed or a post-check did not pass.
	StatusFailed StepStatus = "failed"

	// StatusSkipped means the step was not applicable for this run.
	StatusSkipped StepStatus = "skipped"

	// StatusPartial means some but not all of the step's effects applied.
	StatusPartial StepStatus = "partial"
)

// Terminal reports whether no further transition is possible.
func (s StepStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusSkipped, StatusPartial:
		return true
	}
	return false
}

// StepKind identifies which remediation subsystem produced a step. The
// executor uses it for kind-specific behavior: the port-liveness post-check
// and the lock-error classifier for dependency installs.
type StepKind string

const (
	KindEnvFix     StepKind = "env"
	KindEngine     StepKind = "engine"
	KindPorts      StepKind = "ports"
	KindDocker     StepKind = "docker"
	KindDepInstall StepKind = "deps"
	KindCheck      StepKind = "check"
)

// Step is one unit of planned work: an ordered list of already-validated
// shell commands plus the classification flags the executor's gate needs.
type Step struct {
	// ID is unique within a plan and keys the step's snapshot directory.
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Kind  StepKind `json:"kind"`

	// Destructive marks steps that delete or irreversibly mutate meaningful
	// project state; they never run without explicit authorization.
	Destructive bool `json:"destructive"`

	// Irreversible marks steps with no snapshot/restore path even in
	// principle (for example pruning external container state).
	Irreversible bool `json:"irreversible"`

	// Undoable marks steps whose recorded snapshots can be restored.
	Undoable bool `json:"undoable"`

	// Commands execute strictly in order; an empty list is valid and is
	// used for proposed-only steps.
	Commands []string `json:"commands"`

	// SnapshotPaths starts as the builder's candidate source list (relative
	// to the project root). The executor replaces it with the concrete
	// snapshot destinations it created, immediately before the first
	// command runs, and never mutates it afterwards.
	SnapshotPaths []string `json:"snapshotPaths,omitempty"`

	// UndoHints are suggested recovery commands. Advisory only; the undo
	// engine never executes them.
	UndoHints []string `json:"undoHints,omitempty"`

	// Ports are the TCP ports a port-cleanup step targets. The liveness
	// post-check polls these after the kill commands succeed.
	Ports []int `json:"ports,omitempty"`

	Status         StepStatus `json:"status"`
	Output         string     `json:"output,omitempty"`
	Error          string     `json:"error,omitempty"`
	ProposedReason string     `json:"proposedReason,omitempty"`
}

// WantsSnapshot reports whether the executor must capture snapshots before
// running this step's commands. Destructive steps always snapshot; so do
// steps that pre-declare candidate paths because they mutate a known file
// in place (such as a config sync).
func (s *Step) WantsSnapshot() bool {
	return s.Destructive || len(s.SnapshotPaths) > 0
}
