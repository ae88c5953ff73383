// Package report persists run reports. Each run writes an archival copy
// keyed by run id plus a "latest" pointer; reports are immutable once
// written and are the sole input to undo.
package report

import (
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/caio-ramos/envdoctor/pkg/errors"
	"github.com/caio-ramos/envdoctor/pkg/logging"
	"github.com/caio-ramos/envdoctor/pkg/types"
)

const latestName = "latest.json"

// NewRunID returns a unique, time-ordered run id. A ULID is exactly the
// time+random shape run ids need, and sorts chronologically in the report
// directory listing.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// NewRunIDSecure is like NewRunID but draws entropy from crypto/rand.
func NewRunIDSecure() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to generate run id")
	}
	return id.String(), nil
}

// Store reads and writes run reports in one directory.
type Store struct {
	fs  types.FS
	dir string
}

// NewStore creates a report store rooted at dir.
func NewStore(fsys types.FS, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Dir returns the directory this store persists into.
func (s *Store) Dir() string {
	return s.dir
}

// Write persists the report under <dir>/<run-id>.json and updates the
// latest pointer. These are the only I/O failures in the core allowed to
// propagate as errors: losing the report silently would break undo.
func (s *Store) Write(r *types.RunReport) error {
	if r == nil || r.RunID == "" {
		return errors.New(errors.ErrInvalidInput, "report must have a run id")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrReportWrite, "failed to encode report")
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create report directory %s", s.dir)
	}

	archival := filepath.Join(s.dir, r.RunID+".json")
	if err := s.fs.WriteFile(archival, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to write report %s", archival)
	}

	latest := filepath.Join(s.dir, latestName)
	if err := s.fs.WriteFile(latest, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to write latest pointer %s", latest)
	}

	logger := logging.GetLogger("report")
	logger.Debug().Str("runId", r.RunID).Str("path", archival).Msg("Report persisted")
	return nil
}

// Latest returns the most recent report, or (nil, nil) when none exists.
// Absence is a normal outcome — "nothing to undo" — not an error.
func (s *Store) Latest() (*types.RunReport, error) {
	return s.read(filepath.Join(s.dir, latestName))
}

// ByID returns the archival report for a run id, or (nil, nil) when absent.
func (s *Store) ByID(runID string) (*types.RunReport, error) {
	if strings.ContainsAny(runID, `/\`) || runID == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid run id %q", runID)
	}
	return s.read(filepath.Join(s.dir, runID+".json"))
}

func (s *Store) read(path string) (*types.RunReport, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrReportRead, "failed to read report %s", path)
	}

	var r types.RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, errors.ErrReportRead, "report %s is corrupt", path)
	}
	return &r, nil
}
