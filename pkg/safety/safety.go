// Package safety decides which free-form, configuration-supplied strings may
// ever reach a shell. It is a strict allowlist, not a denylist: a command
// passes only if its characters are all benign and its leading binary is a
// recognized development tool.
package safety

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	// safePathPattern admits plain relative path characters only: no shell
	// metacharacters, no spaces. Traversal is checked separately because
	// every character of ".." is individually legal.
	safePathPattern = regexp.MustCompile(`^[A-Za-z0-9._/-]*$`)

	// safeCommandPattern covers full command lines: tool names, flags,
	// paths, key=value pairs, globs, and whitespace. Anything else
	// (notably ; | & backtick $ parens braces redirects quotes) fails.
	safeCommandPattern = regexp.MustCompile(`^[A-Za-z0-9._\-/@:=*\s]*$`)
)

// knownTools is the fixed allowlist of recognized development-tool binaries:
// formatters, linters, type-checkers, test runners, and package managers for
// the supported ecosystems. Character filtering alone is not enough — a bare
// "rm -rf /" contains no metacharacters yet is fully arbitrary.
var knownTools = map[string]struct{}{
	// node
	"node": {}, "npm": {}, "npx": {}, "pnpm": {}, "yarn": {}, "bun": {},
	"corepack": {}, "tsc": {}, "eslint": {}, "prettier": {}, "biome": {},
	"vitest": {}, "jest": {}, "playwright": {},
	// python
	"python": {}, "python3": {}, "pip": {}, "pip3": {}, "uv": {},
	"poetry": {}, "pipenv": {}, "ruff": {}, "black": {}, "isort": {},
	"flake8": {}, "pylint": {}, "mypy": {}, "pyright": {}, "pytest": {},
	"tox": {},
	// containers
	"docker": {}, "docker-compose": {},
}

// Verdict is the result of a command safety check.
type Verdict struct {
	Safe   bool
	Reason string
}

// IsSafePath reports whether value may be interpolated into a shell command
// as a path fragment. It admits only [A-Za-z0-9._/-] and rejects any string
// containing "..". The empty string passes the character class; callers that
// need a non-empty directory must reject empty separately — that is a
// business rule, not a safety rule.
func IsSafePath(value string) bool {
	if !safePathPattern.MatchString(value) {
		return false
	}
	return !strings.Contains(value, "..")
}

// IsSafeCommand decides whether cmd may be handed to the shell executor.
// Two checks, both required: the entire string must match the character
// allowlist, and the leading binary (stripped of any path prefix) must be a
// known development tool.
func IsSafeCommand(cmd string) Verdict {
	if !safeCommandPattern.MatchString(cmd) {
		return Verdict{Safe: false, Reason: "contains shell metacharacters"}
	}

	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return Verdict{Safe: false, Reason: "empty command"}
	}

	name := path.Base(fields[0])
	if _, ok := knownTools[name]; !ok {
		return Verdict{Safe: false, Reason: fmt.Sprintf("unrecognized tool %q", name)}
	}

	return Verdict{Safe: true}
}

// IsKnownTool reports whether name (without path) is on the tool allowlist.
func IsKnownTool(name string) bool {
	_, ok := knownTools[path.Base(name)]
	return ok
}

// KnownTools returns the allowlist sorted, for help and error output.
func KnownTools() []string {
	tools := make([]string, 0, len(knownTools))
	for name := range knownTools {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	return tools
}

// ShellQuote wraps value in single quotes so the shell treats it as one
// inert word: embedded $(), backticks, and newlines all lose their meaning.
// Each embedded single quote becomes '\'' (close, escaped quote, reopen).
func ShellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
