// Package filesystem provides implementations of the types.FS interface.
//
// Two implementations exist: an OS-backed one used in production, and an
// afero-backed one so the snapshot manager, undo engine, and report store
// can be tested against an in-memory filesystem.
package filesystem
