package undo_test

import (
	"path/filepath"
	"testing"

	"github.com/caio-ramos/envdoctor/pkg/filesystem"
	"github.com/caio-ramos/envdoctor/pkg/types"
	"github.com/caio-ramos/envdoctor/pkg/undo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() (*undo.Engine, afero.Fs) {
	mem := afero.NewMemMapFs()
	return undo.New(filesystem.NewAferoFS(mem), "/proj"), mem
}

func report(steps ...types.Step) *types.RunReport {
	return &types.RunReport{RunID: "run1", Steps: steps}
}

func TestRevert_NilReport(t *testing.T) {
	engine, _ := newEngine()

	result := engine.Revert(nil)

	assert.Nil(t, result.Report)
	assert.NotNil(t, result.Entries)
	assert.Empty(t, result.Entries)
}

func TestRevert_EmptyStepList(t *testing.T) {
	engine, _ := newEngine()

	result := engine.Revert(report())

	assert.NotNil(t, result.Report)
	assert.Empty(t, result.Entries)
}

func TestRevert_NotUndoableIsSkipped(t *testing.T) {
	engine, _ := newEngine()

	result := engine.Revert(report(types.Step{
		ID:            "prune",
		Undoable:      false,
		Irreversible:  true,
		SnapshotPaths: []string{"/snaps/run1/prune/x"},
	}))

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, "not undoable or no snapshot", entry.Reason)
	assert.Empty(t, entry.Restored)
	assert.Contains(t, entry.NextAction, "not snapshotted")
}

func TestRevert_NoSnapshotsIsSkipped(t *testing.T) {
	engine, _ := newEngine()

	result := engine.Revert(report(types.Step{ID: "lint", Undoable: true}))

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "not undoable or no snapshot", result.Entries[0].Reason)
}

func TestRevert_MissingSnapshotIsItsOwnCategory(t *testing.T) {
	engine, _ := newEngine()

	result := engine.Revert(report(types.Step{
		ID:            "clean",
		Undoable:      true,
		SnapshotPaths: []string{"/snaps/run1/clean/gone.txt"},
	}))

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, []string{"/snaps/run1/clean/gone.txt"}, entry.MissingSnapshot)
	assert.Empty(t, entry.Failed)
}

func TestRevert_RestoresFile(t *testing.T) {
	engine, mem := newEngine()
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/sync/.env", []byte("KEY=old"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/proj/.env", []byte("KEY=new"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "sync",
		Undoable:      true,
		SnapshotPaths: []string{"/snaps/run1/sync/.env"},
	}))

	require.Len(t, result.Entries, 1)
	assert.Equal(t, []string{filepath.Join("/proj", ".env")}, result.Entries[0].Restored)

	data, err := afero.ReadFile(mem, "/proj/.env")
	require.NoError(t, err)
	assert.Equal(t, "KEY=old", string(data))
}

func TestRevert_RestoresEncodedNestedPath(t *testing.T) {
	engine, mem := newEngine()
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/fix/config__app.toml", []byte("old"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "fix",
		Undoable:      true,
		SnapshotPaths: []string{"/snaps/run1/fix/config__app.toml"},
	}))

	require.Len(t, result.Entries, 1)
	require.Len(t, result.Entries[0].Restored, 1)

	data, err := afero.ReadFile(mem, "/proj/config/app.toml")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestRevert_RestoresDirectoryRecursively(t *testing.T) {
	engine, mem := newEngine()
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/clean/node_modules/a/index.js", []byte("a"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "clean",
		Undoable:      true,
		SnapshotPaths: []string{"/snaps/run1/clean/node_modules"},
	}))

	require.Len(t, result.Entries[0].Restored, 1)
	data, err := afero.ReadFile(mem, "/proj/node_modules/a/index.js")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestRevert_TraversalBlocked(t *testing.T) {
	engine, mem := newEngine()

	// The encoded basename embeds a traversal sequence; decoded it resolves
	// outside /proj. A sentinel at the would-be escape target must survive.
	escaped := "/snaps/run1/evil/..__..__tmp__sentinel.txt"
	require.NoError(t, afero.WriteFile(mem, escaped, []byte("payload"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/tmp/sentinel.txt", []byte("untouched"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "evil",
		Undoable:      true,
		SnapshotPaths: []string{escaped},
	}))

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	require.Len(t, entry.Failed, 1)
	assert.Contains(t, entry.Failed[0], "blocked")
	assert.Empty(t, entry.Restored)

	data, err := afero.ReadFile(mem, "/tmp/sentinel.txt")
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(data))
}

func TestRevert_OneBlockedPathDoesNotAbortOthers(t *testing.T) {
	engine, mem := newEngine()

	evil := "/snaps/run1/mix/..__..__tmp__x"
	good := "/snaps/run1/mix/safe.txt"
	require.NoError(t, afero.WriteFile(mem, evil, []byte("p"), 0644))
	require.NoError(t, afero.WriteFile(mem, good, []byte("ok"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "mix",
		Undoable:      true,
		SnapshotPaths: []string{evil, good},
	}))

	entry := result.Entries[0]
	require.Len(t, entry.Failed, 1)
	require.Len(t, entry.Restored, 1)

	data, err := afero.ReadFile(mem, "/proj/safe.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestRevert_DepInstallGuidance(t *testing.T) {
	engine, mem := newEngine()
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/deps/package.json", []byte("{}"), 0644))

	result := engine.Revert(report(types.Step{
		ID:            "deps",
		Kind:          types.KindDepInstall,
		Undoable:      true,
		SnapshotPaths: []string{"/snaps/run1/deps/package.json"},
	}))

	assert.Contains(t, result.Entries[0].NextAction, "re-run the package manager")
}

func TestRevert_PreservesStepOrder(t *testing.T) {
	engine, mem := newEngine()
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/a/f1", []byte("1"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/snaps/run1/b/f2", []byte("2"), 0644))

	result := engine.Revert(report(
		types.Step{ID: "b", Undoable: true, SnapshotPaths: []string{"/snaps/run1/b/f2"}},
		types.Step{ID: "a", Undoable: true, SnapshotPaths: []string{"/snaps/run1/a/f1"}},
	))

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "b", result.Entries[0].StepID)
	assert.Equal(t, "a", result.Entries[1].StepID)
}
