package safety_test

import (
	"fmt"
	"os/exec"
	"testing"

	"github.com/caio-ramos/envdoctor/pkg/safety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"simple dir", ".cache", true},
		{"nested dir", "node_modules/.vite", true},
		{"build output", "dist", true},
		{"dotted name", ".pytest_cache", true},
		{"empty string", "", true},
		{"traversal", "foo/../bar", false},
		{"bare dotdot", "..", false},
		{"leading traversal", "../secrets", false},
		{"space", "my cache", false},
		{"semicolon", "dist;rm", false},
		{"pipe", "a|b", false},
		{"ampersand", "a&b", false},
		{"backtick", "a`id`", false},
		{"dollar", "$HOME", false},
		{"parens", "a(b)", false},
		{"braces", "a{b}", false},
		{"redirect", "a>b", false},
		{"bang", "a!b", false},
		{"tilde", "~/x", false},
		{"single quote", "a'b", false},
		{"double quote", `a"b`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safety.IsSafePath(tt.path))
		})
	}
}

func TestIsSafeCommand_Allowed(t *testing.T) {
	for _, cmd := range []string{
		"ruff format .",
		"pytest -q",
		"black .",
		"npm ci",
		"pnpm install --frozen-lockfile",
		"eslint --fix src",
		"mypy --strict src",
		"tsc --noEmit",
		"docker compose config",
		"/usr/local/bin/prettier --write .",
		"npx vitest run",
		"pip install -r requirements.txt",
		"yarn test:unit",
	} {
		t.Run(cmd, func(t *testing.T) {
			verdict := safety.IsSafeCommand(cmd)
			assert.True(t, verdict.Safe, "reason: %s", verdict.Reason)
		})
	}
}

func TestIsSafeCommand_UnknownBinary(t *testing.T) {
	verdict := safety.IsSafeCommand("touch /tmp/x")
	assert.False(t, verdict.Safe)
	assert.Contains(t, verdict.Reason, "touch")

	for _, cmd := range []string{
		"cat /etc/passwd",
		"curl https://example.com",
		"rm -rf /",
		"bash -c anything",
		"/bin/sh script",
	} {
		t.Run(cmd, func(t *testing.T) {
			assert.False(t, safety.IsSafeCommand(cmd).Safe)
		})
	}
}

func TestIsSafeCommand_Metacharacters(t *testing.T) {
	// Metacharacters fail regardless of the leading binary.
	for _, cmd := range []string{
		"black . ; touch /tmp/x",
		"pytest -q | tee out",
		"npm ci && npm test",
		"eslint `id`",
		"ruff check $(pwd)",
		"prettier --write 'src'",
		`jest "suite"`,
		"pytest > out.txt",
		"mypy src # comment",
	} {
		t.Run(cmd, func(t *testing.T) {
			verdict := safety.IsSafeCommand(cmd)
			assert.False(t, verdict.Safe)
			assert.Equal(t, "contains shell metacharacters", verdict.Reason)
		})
	}
}

func TestIsSafeCommand_Empty(t *testing.T) {
	assert.False(t, safety.IsSafeCommand("").Safe)
	assert.False(t, safety.IsSafeCommand("   ").Safe)
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{"has space", "'has space'"},
		{"it's", `'it'\''s'`},
		{"$(id)", "'$(id)'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, safety.ShellQuote(tt.in))
	}
}

// TestShellQuote_RoundTrip verifies via a real shell that quoting makes any
// value survive verbatim, including quotes, substitution, and newlines.
func TestShellQuote_RoundTrip(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	inputs := []string{
		"plain",
		"two words",
		"it's quoted",
		"'''",
		"$(touch /tmp/injected)",
		"`id`",
		"a;b|c&d",
		"line1\nline2",
		"$HOME and ${PATH}",
		`back\slash`,
	}

	for i, input := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			out, err := exec.Command("sh", "-c", "printf %s "+safety.ShellQuote(input)).Output()
			require.NoError(t, err)
			assert.Equal(t, input, string(out))
		})
	}
}

func TestKnownTools(t *testing.T) {
	tools := safety.KnownTools()
	require.NotEmpty(t, tools)
	assert.Contains(t, tools, "pytest")
	assert.Contains(t, tools, "npm")
	assert.NotContains(t, tools, "rm")
	assert.True(t, safety.IsKnownTool("ruff"))
	assert.True(t, safety.IsKnownTool("/usr/bin/ruff"))
	assert.False(t, safety.IsKnownTool("curl"))
}
