package plan_test

import (
	"testing"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/caio-ramos/envdoctor/pkg/plan"
	"github.com/caio-ramos/envdoctor/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepIDs(steps []types.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func TestPhases_Order(t *testing.T) {
	phases := plan.Phases()
	require.Len(t, phases, 7)

	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.String()
	}
	assert.Equal(t,
		[]string{"env", "engines", "ports", "docker", "node", "python", "checks"},
		names)
}

func TestAssemble_FullStack_PhaseOrderHolds(t *testing.T) {
	det := types.Detection{
		HasNode:       true,
		NodeLockfile:  "pnpm-lock.yaml",
		HasPython:     true,
		PythonManager: "uv",
		HasDocker:     true,
		ComposeFile:   "docker-compose.yml",
		HasEnvExample: true,
		MissingEnv:    true,
	}
	cfg := config.Config{
		CacheDirs: []string{"node_modules/.vite"},
		Ports:     []int{5173},
		Checks: config.CheckCommands{
			Format: []string{"prettier --write ."},
			Lint:   []string{"eslint src"},
			Test:   []string{"vitest run"},
		},
	}

	steps := plan.Assemble(det, cfg)

	assert.Equal(t, []string{
		"env-create",
		"engine-node",
		"engine-python",
		"ports-free",
		"docker-down",
		"node-clean-caches",
		"node-deps",
		"python-deps",
		"check-format",
		"check-lint",
		"check-test",
	}, stepIDs(steps))
}

func TestAssemble_EmptyProject(t *testing.T) {
	steps := plan.Assemble(types.Detection{}, config.Config{})
	assert.Empty(t, steps)
}

func TestPortStep_IsDestructiveWithPortsRecorded(t *testing.T) {
	cfg := config.Config{Ports: []int{3000, 8080}}

	steps := plan.Assemble(types.Detection{}, cfg)
	require.Len(t, steps, 1)

	step := steps[0]
	assert.Equal(t, types.KindPorts, step.Kind)
	assert.True(t, step.Destructive)
	assert.True(t, step.Irreversible)
	assert.Equal(t, []int{3000, 8080}, step.Ports)
	require.Len(t, step.Commands, 2)
	assert.Contains(t, step.Commands[0], "3000")
}

func TestNodeDeps_InstallMatchesLockfile(t *testing.T) {
	tests := []struct {
		lockfile string
		want     string
	}{
		{"package-lock.json", "npm ci"},
		{"pnpm-lock.yaml", "pnpm install --frozen-lockfile"},
		{"yarn.lock", "yarn install --immutable"},
		{"bun.lockb", "bun install"},
		{"", "npm install"},
	}

	for _, tt := range tests {
		t.Run(tt.lockfile, func(t *testing.T) {
			det := types.Detection{HasNode: true, NodeLockfile: tt.lockfile}
			steps := plan.Assemble(det, config.Config{})

			var deps *types.Step
			for i := range steps {
				if steps[i].ID == "node-deps" {
					deps = &steps[i]
				}
			}
			require.NotNil(t, deps)
			assert.Equal(t, []string{tt.want}, deps.Commands)
		})
	}
}

func TestCacheClean_RevalidatesDirs(t *testing.T) {
	// A dir that slipped past load-time sanitization must still be dropped
	// here; the two enforcement points are independent.
	cfg := config.Config{CacheDirs: []string{"../evil", ".cache; rm -rf /", "dist"}}
	det := types.Detection{HasNode: true}

	steps := plan.Assemble(det, cfg)

	var clean *types.Step
	for i := range steps {
		if steps[i].ID == "node-clean-caches" {
			clean = &steps[i]
		}
	}
	require.NotNil(t, clean)
	assert.Equal(t, []string{"rm -rf dist"}, clean.Commands)
	assert.Equal(t, []string{"dist"}, clean.SnapshotPaths)
	assert.True(t, clean.Destructive)
	assert.True(t, clean.Undoable)
}

func TestChecks_UnsafeCommandSurfacesAsProposed(t *testing.T) {
	cfg := config.Config{
		Checks: config.CheckCommands{
			Test: []string{"pytest -q", "touch /tmp/x"},
		},
	}

	steps := plan.Assemble(types.Detection{}, cfg)
	require.Len(t, steps, 2)

	rejected := steps[0]
	assert.Equal(t, types.StatusProposed, rejected.Status)
	assert.Empty(t, rejected.Commands)
	assert.Contains(t, rejected.ProposedReason, "touch")
	assert.Contains(t, rejected.ProposedReason, "safety policy")

	runnable := steps[1]
	assert.Equal(t, types.StatusPlanned, runnable.Status)
	assert.Equal(t, []string{"pytest -q"}, runnable.Commands)
}

func TestEnvStep_ProposedOnly(t *testing.T) {
	det := types.Detection{HasEnvExample: true, MissingEnv: true}

	steps := plan.Assemble(det, config.Config{})
	require.Len(t, steps, 1)

	assert.Equal(t, types.StatusProposed, steps[0].Status)
	assert.Empty(t, steps[0].Commands)
	assert.NotEmpty(t, steps[0].ProposedReason)
}
