// Package plan assembles the ordered step list from detection and
// configuration. Builders emit declarative step descriptions only; the one
// piece of security logic they carry is calling the shared safety
// validators on anything configuration-supplied.
package plan

import (
	"fmt"
	"strings"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/caio-ramos/envdoctor/pkg/safety"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

// Builder produces the steps for one phase. Builders never execute
// anything and never mutate state.
type Builder func(det types.Detection, cfg config.Config) []types.Step

// builders maps each phase to its step builder.
var builders = map[Phase]Builder{
	PhaseEnv:     buildEnvSteps,
	PhaseEngines: buildEngineSteps,
	PhasePorts:   buildPortSteps,
	PhaseDocker:  buildDockerSteps,
	PhaseNode:    buildNodeSteps,
	PhasePython:  buildPythonSteps,
	PhaseChecks:  buildCheckSteps,
}

// Assemble walks the phase enumeration in order and concatenates each
// builder's steps. The resulting order is the executor's input contract.
func Assemble(det types.Detection, cfg config.Config) []types.Step {
	var steps []types.Step
	for _, phase := range Phases() {
		if build, ok := builders[phase]; ok {
			steps = append(steps, build(det, cfg)...)
		}
	}
	return steps
}

func buildEnvSteps(det types.Detection, _ config.Config) []types.Step {
	if !det.MissingEnv {
		return nil
	}
	// Proposed-only: copying secrets around is a human decision.
	return []types.Step{{
		ID:             "env-create",
		Title:          "Create .env from .env.example",
		Kind:           types.KindEnvFix,
		Status:         types.StatusProposed,
		ProposedReason: ".env is missing; review .env.example and fill in real values",
		UndoHints:      []string{"rm .env"},
	}}
}

func buildEngineSteps(det types.Detection, _ config.Config) []types.Step {
	var steps []types.Step
	if det.HasNode {
		steps = append(steps, types.Step{
			ID:       "engine-node",
			Title:    "Check Node.js toolchain",
			Kind:     types.KindEngine,
			Status:   types.StatusPlanned,
			Commands: []string{"node --version", "npm --version"},
		})
	}
	if det.HasPython {
		steps = append(steps, types.Step{
			ID:       "engine-python",
			Title:    "Check Python toolchain",
			Kind:     types.KindEngine,
			Status:   types.StatusPlanned,
			Commands: []string{"python3 --version"},
		})
	}
	return steps
}

// buildPortSteps emits one destructive kill step covering every configured
// port. The commands are system-built from validated integers; they never
// pass through the command validator.
func buildPortSteps(_ types.Detection, cfg config.Config) []types.Step {
	if len(cfg.Ports) == 0 {
		return nil
	}

	commands := make([]string, 0, len(cfg.Ports))
	hints := make([]string, 0, len(cfg.Ports))
	for _, port := range cfg.Ports {
		commands = append(commands,
			fmt.Sprintf("lsof -nP -t -iTCP:%d -sTCP:LISTEN | xargs -r kill", port))
		hints = append(hints, fmt.Sprintf("lsof -nP -iTCP:%d", port))
	}

	return []types.Step{{
		ID:           "ports-free",
		Title:        fmt.Sprintf("Free dev-server ports %s", joinPorts(cfg.Ports)),
		Kind:         types.KindPorts,
		Status:       types.StatusPlanned,
		Destructive:  true,
		Irreversible: true, // killed processes cannot be un-killed
		Commands:     commands,
		Ports:        cfg.Ports,
		UndoHints:    hints,
	}}
}

func buildDockerSteps(det types.Detection, _ config.Config) []types.Step {
	if det.ComposeFile == "" {
		return nil
	}
	return []types.Step{{
		ID:           "docker-down",
		Title:        "Stop compose services",
		Kind:         types.KindDocker,
		Status:       types.StatusPlanned,
		Destructive:  true,
		Irreversible: true, // container state is external to the snapshot tree
		Commands:     []string{"docker compose down --remove-orphans"},
		UndoHints:    []string{"docker compose up -d"},
	}}
}

func buildNodeSteps(det types.Detection, cfg config.Config) []types.Step {
	if !det.HasNode {
		return nil
	}

	var steps []types.Step

	if clean := buildCacheCleanStep(cfg); clean != nil {
		steps = append(steps, *clean)
	}

	install := "npm install"
	switch det.NodeLockfile {
	case "package-lock.json":
		install = "npm ci"
	case "pnpm-lock.yaml":
		install = "pnpm install --frozen-lockfile"
	case "yarn.lock":
		install = "yarn install --immutable"
	case "bun.lockb":
		install = "bun install"
	}

	snapshots := []string{"package.json"}
	if det.NodeLockfile != "" {
		snapshots = append(snapshots, det.NodeLockfile)
	}

	steps = append(steps, types.Step{
		ID:            "node-deps",
		Title:         "Reinstall node dependencies",
		Kind:          types.KindDepInstall,
		Status:        types.StatusPlanned,
		Undoable:      true,
		Commands:      []string{install},
		SnapshotPaths: snapshots,
	})

	return steps
}

func buildPythonSteps(det types.Detection, _ config.Config) []types.Step {
	if !det.HasPython {
		return nil
	}

	var install string
	switch det.PythonManager {
	case "uv":
		install = "uv sync"
	case "poetry":
		install = "poetry install"
	default:
		install = "pip install -r requirements.txt"
	}

	return []types.Step{{
		ID:       "python-deps",
		Title:    "Sync python dependencies",
		Kind:     types.KindDepInstall,
		Status:   types.StatusPlanned,
		Commands: []string{install},
	}}
}

// buildCacheCleanStep interpolates configured cache directories into the
// clean command. Config was sanitized at load time; validating again here
// keeps the two enforcement points independent.
func buildCacheCleanStep(cfg config.Config) *types.Step {
	var safeDirs []string
	for _, dir := range cfg.CacheDirs {
		if dir == "" || !safety.IsSafePath(dir) {
			continue
		}
		safeDirs = append(safeDirs, dir)
	}
	if len(safeDirs) == 0 {
		return nil
	}

	commands := make([]string, 0, len(safeDirs))
	for _, dir := range safeDirs {
		commands = append(commands, "rm -rf "+dir)
	}

	return &types.Step{
		ID:            "node-clean-caches",
		Title:         "Clear stale build caches",
		Kind:          types.KindEnvFix,
		Status:        types.StatusPlanned,
		Destructive:   true,
		Undoable:      true,
		Commands:      commands,
		SnapshotPaths: safeDirs,
	}
}

// buildCheckSteps turns configured check commands into steps, in strict
// format -> lint -> test order. Commands that fail validation surface as a
// proposed step naming the violated rule, so the refusal is visible rather
// than silent.
func buildCheckSteps(_ types.Detection, cfg config.Config) []types.Step {
	groups := []struct {
		name     string
		commands []string
	}{
		{"format", cfg.Checks.Format},
		{"lint", cfg.Checks.Lint},
		{"test", cfg.Checks.Test},
	}

	var steps []types.Step
	for _, group := range groups {
		if len(group.commands) == 0 {
			continue
		}

		var safeCommands []string
		var rejected []string
		for _, cmd := range group.commands {
			verdict := safety.IsSafeCommand(cmd)
			if verdict.Safe {
				safeCommands = append(safeCommands, cmd)
			} else {
				rejected = append(rejected, fmt.Sprintf("%q: %s", cmd, verdict.Reason))
			}
		}

		if len(rejected) > 0 {
			steps = append(steps, types.Step{
				ID:             "check-" + group.name + "-rejected",
				Title:          fmt.Sprintf("Rejected %s commands", group.name),
				Kind:           types.KindCheck,
				Status:         types.StatusProposed,
				ProposedReason: "refused by command safety policy: " + strings.Join(rejected, "; "),
			})
		}

		if len(safeCommands) > 0 {
			steps = append(steps, types.Step{
				ID:       "check-" + group.name,
				Title:    fmt.Sprintf("Run %s checks", group.name),
				Kind:     types.KindCheck,
				Status:   types.StatusPlanned,
				Commands: safeCommands,
			})
		}
	}
	return steps
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
