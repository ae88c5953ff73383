// Package ports checks whether TCP ports are still held by a process and
// polls for their release after a port-cleanup step.
package ports

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/shellexec"
)

// Holder is a process observed holding a port.
type Holder struct {
	Port int
	PID  int
}

func (h Holder) String() string {
	return fmt.Sprintf("port %d (pid %d)", h.Port, h.PID)
}

// Prober reports the processes currently holding a port. Non-mutating.
type Prober interface {
	Holders(ctx context.Context, port int) ([]Holder, error)
}

// LsofProber shells out to lsof. The command is built from an integer port
// only, so it never passes through the safety validator.
type LsofProber struct {
	Runner  shellexec.Runner
	WorkDir string
}

func (p LsofProber) Holders(ctx context.Context, port int) ([]Holder, error) {
	cmd := fmt.Sprintf("lsof -nP -t -iTCP:%d -sTCP:LISTEN", port)
	result := p.Runner.Run(ctx, p.WorkDir, cmd)
	// lsof exits non-zero when nothing matches; that means the port is free.
	if !result.Success {
		return nil, nil
	}

	var holders []Holder
	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		holders = append(holders, Holder{Port: port, PID: pid})
	}
	return holders, nil
}

// PollOptions bound the release poll. The poll gives up after MaxWait
// rather than blocking indefinitely.
type PollOptions struct {
	Interval time.Duration
	MaxWait  time.Duration

	// Cooldown is the short settle period after confirmed release, giving
	// the OS time to finish tearing the sockets down.
	Cooldown time.Duration
}

// DefaultPollOptions matches the executor's fixed budget.
func DefaultPollOptions() PollOptions {
	return PollOptions{
		Interval: 500 * time.Millisecond,
		MaxWait:  10 * time.Second,
		Cooldown: 750 * time.Millisecond,
	}
}

// PollUntilFree repeatedly probes ports until all are released or the wait
// budget elapses. Each iteration fans out one independent probe per port
// and joins before deciding. It returns true when the ports came free, or
// false with the holders observed on the final probe.
func PollUntilFree(ctx context.Context, prober Prober, targetPorts []int, opts PollOptions) (bool, []Holder) {
	logger := logging.GetLogger("ports")
	deadline := time.Now().Add(opts.MaxWait)

	for {
		held := probeAll(ctx, prober, targetPorts)
		if len(held) == 0 {
			if opts.Cooldown > 0 {
				sleepCtx(ctx, opts.Cooldown)
			}
			return true, nil
		}

		if time.Now().After(deadline) || ctx.Err() != nil {
			logger.Debug().Int("held", len(held)).Msg("Port release wait budget elapsed")
			return false, held
		}

		sleepCtx(ctx, opts.Interval)
	}
}

func probeAll(ctx context.Context, prober Prober, targetPorts []int) []Holder {
	var (
		mu   sync.Mutex
		held []Holder
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, port := range targetPorts {
		port := port
		g.Go(func() error {
			holders, err := prober.Holders(gctx, port)
			if err != nil {
				// A failed probe is treated as free: probing is advisory
				// and must not wedge the poll.
				return nil
			}
			mu.Lock()
			held = append(held, holders...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(held, func(i, j int) bool {
		if held[i].Port != held[j].Port {
			return held[i].Port < held[j].Port
		}
		return held[i].PID < held[j].PID
	})
	return held
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// DescribeHolders formats still-held port/PID pairs for a failure detail.
func DescribeHolders(held []Holder) string {
	parts := make([]string, len(held))
	for i, h := range held {
		parts[i] = h.String()
	}
	return strings.Join(parts, ", ")
}
