package config_test

import (
	"testing"

	"github.com/caio-ramos/envdoctor/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestSanitize_DropsUnsafeCommands(t *testing.T) {
	cfg := config.Config{
		Checks: config.CheckCommands{
			Format: []string{"prettier --write .", "touch /tmp/x", "black ."},
			Lint:   []string{"eslint src; rm -rf /", "ruff check ."},
			Test:   []string{"pytest -q"},
		},
	}

	got := config.Sanitize(cfg)

	assert.Equal(t, []string{"prettier --write .", "black ."}, got.Checks.Format)
	assert.Equal(t, []string{"ruff check ."}, got.Checks.Lint)
	assert.Equal(t, []string{"pytest -q"}, got.Checks.Test)
}

func TestSanitize_DropsUnsafeCacheDirs(t *testing.T) {
	cfg := config.Config{
		CacheDirs: []string{
			".cache",
			"node_modules/.vite",
			"../escape",
			"dist;rm -rf /",
			"",
			"$HOME",
		},
	}

	got := config.Sanitize(cfg)

	assert.Equal(t, []string{".cache", "node_modules/.vite"}, got.CacheDirs)
}

func TestSanitize_DropsInvalidPorts(t *testing.T) {
	cfg := config.Config{Ports: []int{3000, 0, -1, 70000, 8080}}
	got := config.Sanitize(cfg)
	assert.Equal(t, []int{3000, 8080}, got.Ports)
}

func TestSanitize_Idempotent(t *testing.T) {
	cfg := config.Config{
		CacheDirs: []string{".cache", "bad dir", "../nope"},
		Ports:     []int{3000, 99999},
		Checks: config.CheckCommands{
			Format: []string{"black .", "curl evil"},
			Lint:   []string{"ruff check ."},
		},
	}

	once := config.Sanitize(cfg)
	twice := config.Sanitize(once)

	assert.Equal(t, once, twice)
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	cfg := config.Config{
		CacheDirs: []string{".cache", "../nope"},
	}

	_ = config.Sanitize(cfg)

	assert.Equal(t, []string{".cache", "../nope"}, cfg.CacheDirs)
}
