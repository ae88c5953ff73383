package config

import (
	"strings"

	"github.com/caio-ramos/envdoctor/pkg/safety"
)

// Sanitize filters untrusted configuration through the safety validators.
// It is one of two independent enforcement points; the plan builders
// validate again before interpolating anything into a command.
//
// Unsafe entries are dropped silently so one bad line in a config file does
// not block the valid ones. Sanitize is pure and idempotent: it returns a
// new value, and sanitizing twice yields the same result as once.
func Sanitize(cfg Config) Config {
	out := cfg
	out.CacheDirs = sanitizeCacheDirs(cfg.CacheDirs)
	out.Ports = sanitizePorts(cfg.Ports)
	out.Checks = CheckCommands{
		Format: sanitizeCommands(cfg.Checks.Format),
		Lint:   sanitizeCommands(cfg.Checks.Lint),
		Test:   sanitizeCommands(cfg.Checks.Test),
	}
	return out
}

func sanitizeCommands(commands []string) []string {
	result := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if safety.IsSafeCommand(cmd).Safe {
			result = append(result, cmd)
		}
	}
	return result
}

// sanitizeCacheDirs rejects empty entries and traversal before the
// character-class check. IsSafePath also rejects "..".
func sanitizeCacheDirs(dirs []string) []string {
	result := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if strings.Contains(dir, "..") {
			continue
		}
		if !safety.IsSafePath(dir) {
			continue
		}
		result = append(result, dir)
	}
	return result
}

func sanitizePorts(ports []int) []int {
	result := make([]int, 0, len(ports))
	for _, port := range ports {
		if port >= 1 && port <= 65535 {
			result = append(result, port)
		}
	}
	return result
}
