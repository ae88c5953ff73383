// Package shellexec runs a single validated command line in a subprocess.
//
// It makes no safety decisions. Callers must only pass strings that already
// passed the safety validator, or that this system built itself from
// validated values (such as port-check commands built from integer ports).
package shellexec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/caio-ramos/envdoctor/pkg/logging"
)

// DefaultMaxOutputBytes caps each captured stream at 4 MiB so a chatty
// command cannot grow memory without bound.
const DefaultMaxOutputBytes = 4 << 20

// Result is the outcome of one command invocation. A non-zero exit is not
// a Go error; it is reported here.
type Result struct {
	Command  string
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes one command line rooted at a working directory.
type Runner interface {
	Run(ctx context.Context, workDir, command string) Result
}

// ShellRunner routes the command string through a single shell invocation
// so legitimate pipe and chain semantics in tool commands are preserved.
type ShellRunner struct {
	// MaxOutputBytes caps each of stdout and stderr. Zero means the default.
	MaxOutputBytes int
}

// NewRunner returns a ShellRunner with the default output cap.
func NewRunner() ShellRunner {
	return ShellRunner{MaxOutputBytes: DefaultMaxOutputBytes}
}

func (r ShellRunner) Run(ctx context.Context, workDir, command string) Result {
	logger := logging.GetLogger("shellexec")

	limit := r.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = workDir

	stdout := &cappedBuffer{limit: limit}
	stderr := &cappedBuffer{limit: limit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	result := Result{
		Command: command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	switch {
	case err == nil:
		result.Success = true
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Could not start at all (e.g. missing shell).
			result.ExitCode = -1
			result.Stderr = err.Error()
		}
	}

	logger.Debug().
		Str("command", command).
		Str("workDir", workDir).
		Bool("success", result.Success).
		Int("exitCode", result.ExitCode).
		Msg("Command finished")

	return result
}

// cappedBuffer discards everything past its limit. Truncation is silent:
// the bound exists to protect memory, not to signal anything.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	// Report full length so the subprocess never sees a write error.
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
