package types

import "time"

// RunReport is the complete record of one invocation. It is created once
// per run and is immutable after being written to the report store; it is
// the sole input to undo.
type RunReport struct {
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
	Mode      RunMode   `json:"mode"`
	WorkDir   string    `json:"workDir"`

	// SnapshotRoot is the directory under which this run's snapshots were
	// taken, recorded so undo can resolve them later.
	SnapshotRoot string `json:"snapshotRoot"`

	Detection Detection `json:"detection"`
	Steps     []Step    `json:"steps"`
	Summary   Summary   `json:"summary"`
}

// Summary holds the aggregate step counts for a run.
type Summary struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	Proposed int `json:"proposed"`
	Skipped  int `json:"skipped"`
	Planned  int `json:"planned"`
}

// Summarize computes aggregate counts over a final step list.
func Summarize(steps []Step) Summary {
	s := Summary{Total: len(steps)}
	for _, step := range steps {
		switch step.Status {
		case StatusSuccess:
			s.Success++
		case StatusFailed:
			s.Failed++
		case StatusProposed:
			s.Proposed++
		case StatusSkipped:
			s.Skipped++
		case StatusPlanned:
			s.Planned++
		}
	}
	return s
}
