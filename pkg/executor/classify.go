package executor

import (
	"regexp"

	"github.com/caio-ramos/envdoctor/pkg/types"
)

// Classifier turns a failed step's combined output into a user-facing error
// message. It is pluggable so new heuristics can be added without touching
// the orchestrator's state machine.
type Classifier interface {
	Classify(step types.Step, output string) string
}

const genericFailureMessage = "one or more commands failed"

const lockFailureMessage = "dependency install hit a file lock or permission error; " +
	"close IDEs and zombie file watchers holding the tree, then retry"

// lockPatterns match the permission/busy error shapes that file-locking
// problems produce across package managers.
var lockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bEPERM\b`),
	regexp.MustCompile(`(?i)\bEACCES\b`),
	regexp.MustCompile(`(?i)\bEBUSY\b`),
	regexp.MustCompile(`(?i)operation not permitted`),
	regexp.MustCompile(`(?i)permission denied`),
	regexp.MustCompile(`(?i)resource busy or locked`),
	regexp.MustCompile(`(?i)text file busy`),
}

// PatternClassifier is the default heuristic set: lock-specific guidance
// for dependency-install steps whose output pattern-matches a locking
// error, generic otherwise.
type PatternClassifier struct{}

func (PatternClassifier) Classify(step types.Step, output string) string {
	if step.Kind == types.KindDepInstall {
		for _, pattern := range lockPatterns {
			if pattern.MatchString(output) {
				return lockFailureMessage
			}
		}
	}
	return genericFailureMessage
}
