package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Stage is a staging directory for one build of target.
type Stage struct {
	target   string
	dir      string
	promoted bool
}

// NewStage creates the staging directory for target. id distinguishes concurrent
// stages; only its first eight characters are used.
func NewStage(target, id string) (*Stage, error) {
	target = filepath.Clean(target)
	if len(id) > 8 {
		id = id[:8]
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = "build"
	}
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output parent directory").
			WithContext("path", parent).
			Build()
	}
	dir := filepath.Join(parent, "."+filepath.Base(target)+"-staging-"+id)
	if err := os.RemoveAll(dir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to clear stale staging directory").
			WithContext("path", dir).
			Build()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create staging directory").
			WithContext("path", dir).
			Build()
	}
	slog.Debug("Created staging directory", logfields.Path(dir))
	return &Stage{target: target, dir: dir}, nil
}

// Path returns the directory the build writes to.
func (s *Stage) Path() string {
	return s.dir
}

// Target returns the directory the stage replaces.
func (s *Stage) Target() string {
	return s.target
}

// Promote replaces the target with the staged tree. The previous target is moved aside
// first and restored if the final rename fails.
func (s *Stage) Promote() error {
	if s.promoted {
		return nil
	}
	backup := s.dir + "-previous"
	hadTarget := false
	if _, err := os.Lstat(s.target); err == nil {
		if err := os.RemoveAll(backup); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clear previous output backup").
				WithContext("path", backup).
				Build()
		}
		if err := os.Rename(s.target, backup); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to move previous output aside").
				WithContext("path", s.target).
				Build()
		}
		hadTarget = true
	}

	if err := os.Rename(s.dir, s.target); err != nil {
		if hadTarget {
			if rerr := os.Rename(backup, s.target); rerr != nil {
				slog.Error("Failed to restore previous output", logfields.Path(s.target), logfields.Error(rerr))
			}
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to promote staged output").
			WithContext("path", s.target).
			WithContext("staging", s.dir).
			Build()
	}
	s.promoted = true

	if hadTarget {
		if err := os.RemoveAll(backup); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(backup), logfields.Error(err))
		}
	}
	slog.Debug("Promoted staged output", logfields.Path(s.target))
	return nil
}

// Discard removes the staging directory unless it has been promoted.
func (s *Stage) Discard() error {
	if s.promoted {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to remove staging directory").
			WithContext("path", s.dir).
			Build()
	}
	return nil
}
