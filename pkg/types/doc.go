// Package types defines the core types shared across envdoctor: remediation
// steps and their lifecycle, run reports, run context and modes, the
// confirmation interface, and the filesystem abstraction.
package types
