// Package undo reverses the recorded filesystem effects of a past run.
//
// It is intentionally best-effort: only explicitly snapshotted paths are
// restored. Externally-mutated state (package manager global caches,
// container images and volumes) is out of reach, and every entry carries
// next-action guidance saying so rather than omitting it silently.
package undo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/snapshot"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

// Entry is the per-step outcome of one undo attempt. Created fresh on each
// invocation; never persisted back into the original report.
type Entry struct {
	StepID string `json:"stepId"`
	Title  string `json:"title"`

	Restored        []string `json:"restored,omitempty"`
	Skipped         []string `json:"skipped,omitempty"`
	MissingSnapshot []string `json:"missingSnapshot,omitempty"`
	Failed          []string `json:"failed,omitempty"`

	// Reason explains a wholly-skipped step.
	Reason string `json:"reason,omitempty"`

	// NextAction is user-facing guidance about what undo could not cover.
	NextAction string `json:"nextAction,omitempty"`
}

// Result is the outcome of one undo invocation. Report is nil when no
// report could be read; callers treat that as "nothing to undo", not an
// error, and Entries is empty.
type Result struct {
	Report  *types.RunReport `json:"report"`
	Entries []Entry          `json:"entries"`
}

// Engine restores snapshots against a project root.
type Engine struct {
	fs      types.FS
	workDir string
}

// New creates an undo engine rooted at workDir.
func New(fsys types.FS, workDir string) *Engine {
	return &Engine{fs: fsys, workDir: workDir}
}

// Revert attempts to reverse every step of the report, in the report's
// original step order; within a step, snapshot paths restore in recorded
// order. A nil report yields an empty, non-nil-entries result.
func (e *Engine) Revert(report *types.RunReport) Result {
	if report == nil {
		return Result{Report: nil, Entries: []Entry{}}
	}

	logger := logging.GetLogger("undo")
	entries := make([]Entry, 0, len(report.Steps))

	for _, step := range report.Steps {
		entry := e.revertStep(logger, step)
		entries = append(entries, entry)
	}

	return Result{Report: report, Entries: entries}
}

func (e *Engine) revertStep(logger zerolog.Logger, step types.Step) Entry {
	entry := Entry{StepID: step.ID, Title: step.Title}

	if !step.Undoable || len(step.SnapshotPaths) == 0 {
		entry.Reason = "not undoable or no snapshot"
		entry.Skipped = append(entry.Skipped, step.SnapshotPaths...)
		if step.Irreversible {
			entry.NextAction = "external state (caches, containers, volumes) was not snapshotted; review manually"
		}
		return entry
	}

	for _, snapPath := range step.SnapshotPaths {
		if _, err := e.fs.Stat(snapPath); err != nil {
			entry.MissingSnapshot = append(entry.MissingSnapshot, snapPath)
			continue
		}

		rel := snapshot.DecodeName(filepath.Base(snapPath))
		target := filepath.Join(e.workDir, rel)

		ok, err := e.contained(target)
		if err != nil || !ok {
			// Never write outside the project root, not even partially.
			entry.Failed = append(entry.Failed,
				fmt.Sprintf("%s: restore blocked: target %q escapes project root", snapPath, rel))
			logger.Warn().Str("snapshot", snapPath).Str("target", rel).Msg("Restore blocked by containment check")
			continue
		}

		if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			entry.Failed = append(entry.Failed, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		if err := snapshot.CopyPath(e.fs, snapPath, target); err != nil {
			entry.Failed = append(entry.Failed, fmt.Sprintf("%s: %v", target, err))
			continue
		}

		logger.Debug().Str("snapshot", snapPath).Str("target", target).Msg("Snapshot restored")
		entry.Restored = append(entry.Restored, target)
	}

	entry.NextAction = nextAction(step, entry)
	return entry
}

// contained reports whether target's canonical absolute path is the project
// root itself or a descendant of it.
func (e *Engine) contained(target string) (bool, error) {
	absRoot, err := filepath.Abs(e.workDir)
	if err != nil {
		return false, err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, err
	}

	absRoot = filepath.Clean(absRoot)
	absTarget = filepath.Clean(absTarget)

	if absTarget == absRoot {
		return true, nil
	}
	return strings.HasPrefix(absTarget, absRoot+string(filepath.Separator)), nil
}

func nextAction(step types.Step, entry Entry) string {
	switch {
	case len(entry.Failed) > 0:
		return "some paths were not restored; inspect the failures before re-running"
	case step.Kind == types.KindDepInstall:
		return "restored files only; re-run the package manager install to rebuild dependency state"
	case step.Irreversible:
		return "external state (caches, containers, volumes) was not snapshotted; review manually"
	default:
		return ""
	}
}
