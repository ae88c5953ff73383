// Package snapshot copies source paths aside before a step mutates them.
//
// Snapshots live under <snapshot-root>/<run-id>/<step-id>/<encoded-name>,
// where the encoded name is the source's project-relative path with every
// separator replaced by a placeholder. The encoding is a durable contract
// shared with the undo engine: undo decodes the basename back into the
// original relative path. Neither side may change it independently.
package snapshot

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/caio-ramos/envdoctor/pkg/errors"
	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

// Placeholder replaces path separators in encoded snapshot names. A double
// underscore keeps single-underscore names like node_modules intact.
//
// TODO: this is still lossy when a source filename itself contains "__";
// moving to percent-encoding would fix that but changes the on-disk
// contract, so it needs a migration for existing snapshot trees.
const Placeholder = "__"

// EncodeRelPath turns a project-relative source path into a flat snapshot
// basename.
func EncodeRelPath(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", Placeholder)
}

// DecodeName reverses EncodeRelPath on a snapshot basename.
func DecodeName(name string) string {
	return filepath.FromSlash(strings.ReplaceAll(name, Placeholder, "/"))
}

// Manager captures snapshots for steps of a single run.
type Manager struct {
	fs      types.FS
	workDir string
	root    string
}

// New creates a Manager that resolves sources against workDir and writes
// snapshots under root.
func New(fsys types.FS, workDir, root string) *Manager {
	return &Manager{fs: fsys, workDir: workDir, root: root}
}

// Root returns the snapshot root this manager writes under.
func (m *Manager) Root() string {
	return m.root
}

// Capture copies each existing source (file or directory, recursively) into
// the step's snapshot directory and returns the destination paths actually
// created. Non-existent sources are skipped silently: many steps declare
// optional candidates that may not apply. Calling Capture again for the
// same step overwrites the earlier copies.
func (m *Manager) Capture(runID, stepID string, sources []string) ([]string, error) {
	logger := logging.GetLogger("snapshot")

	stepDir := filepath.Join(m.root, runID, stepID)
	created := make([]string, 0, len(sources))

	for _, source := range sources {
		src := filepath.Join(m.workDir, source)
		info, err := m.fs.Stat(src)
		if err != nil {
			logger.Debug().Str("source", source).Msg("Snapshot candidate does not exist, skipping")
			continue
		}

		if len(created) == 0 {
			if err := m.fs.MkdirAll(stepDir, 0755); err != nil {
				return created, errors.Wrapf(err, errors.ErrSnapshotCreate,
					"failed to create snapshot directory %s", stepDir)
			}
		}

		dest := filepath.Join(stepDir, EncodeRelPath(source))
		if err := m.copyPath(src, dest, info); err != nil {
			return created, errors.Wrapf(err, errors.ErrSnapshotCreate,
				"failed to snapshot %s", source)
		}

		logger.Debug().Str("source", source).Str("dest", dest).Msg("Snapshot captured")
		created = append(created, dest)
	}

	return created, nil
}

func (m *Manager) copyPath(src, dest string, info fs.FileInfo) error {
	if info.IsDir() {
		return m.copyDir(src, dest)
	}
	return m.copyFile(src, dest, info.Mode().Perm())
}

func (m *Manager) copyFile(src, dest string, perm fs.FileMode) error {
	data, err := m.fs.ReadFile(src)
	if err != nil {
		return err
	}
	if err := m.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return m.fs.WriteFile(dest, data, perm)
}

func (m *Manager) copyDir(src, dest string) error {
	if err := m.fs.MkdirAll(dest, 0755); err != nil {
		return err
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcEntry := filepath.Join(src, entry.Name())
		destEntry := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := m.copyDir(srcEntry, destEntry); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			// Sockets, devices, and symlinks are not snapshot material.
			continue
		}
		if err := m.copyFile(srcEntry, destEntry, info.Mode().Perm()); err != nil {
			return err
		}
	}

	return nil
}

// CopyPath restores or duplicates a single path outside a step capture.
// The undo engine uses it to copy a snapshot back over its target.
func CopyPath(fsys types.FS, src, dest string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	m := &Manager{fs: fsys}
	return m.copyPath(src, dest, info)
}
