/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package planner

import (
	"fmt"
	"os"

	"github.com/fulmenhq/goproj/internal/backup"
	"github.com/fulmenhq/goproj/internal/index"
	"github.com/fulmenhq/goproj/internal/verify"
	"github.com/fulmenhq/goproj/pkg/ident"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
	"github.com/fulmenhq/goproj/pkg/safeio"
)

// Session owns one loaded manifest for the lifetime of a command: parse,
// index, mutate, validate, serialize. Single writer, no internal
// concurrency.
type Session struct {
	path   string
	m      *manifest.Manifest
	idx    *index.Index
	gen    *ident.Generator
	keeper backup.Keeper
	dirty  bool
}

// Open loads and indexes the manifest file at path.
func Open(path string) (*Session, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied by design
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	s, err := Load(string(data))
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

// Load parses and indexes manifest text.
func Load(text string) (*Session, error) {
	m, err := manifest.Parse(text)
	if err != nil {
		return nil, err
	}
	idx, err := index.Build(m)
	if err != nil {
		return nil, err
	}
	return &Session{m: m, idx: idx, gen: ident.New()}, nil
}

// Manifest exposes the current manifest state, primarily for callers
// that want to inspect or validate without mutating.
func (s *Session) Manifest() *manifest.Manifest { return s.m }

// Dirty reports whether any operation changed the manifest.
func (s *Session) Dirty() bool { return s.dirty }

// Text serializes the current manifest state.
func (s *Session) Text() string { return manifest.Serialize(s.m) }

// AddFile adds one file declaration plus its build entry, phase
// membership, and group membership. Repeating the call with the same
// display name is a reported no-op.
func (s *Session) AddFile(spec AddFileSpec) (*Result, error) {
	return s.run("add-file", func() (*Result, error) { return s.addFile(spec) })
}

// AddFiles applies a batch of additions in order, stopping at the first
// failure. The whole batch sits inside one snapshot, so a failure rolls
// back every addition made before it.
func (s *Session) AddFiles(specs []AddFileSpec) ([]*Result, error) {
	results := make([]*Result, 0, len(specs))
	token := s.keeper.Snapshot(s.m)
	for _, spec := range specs {
		res, err := s.run("add-file", func() (*Result, error) { return s.addFile(spec) })
		if err != nil {
			if rbErr := s.rollback(token); rbErr != nil {
				return nil, rbErr
			}
			return nil, err
		}
		results = append(results, res)
	}
	s.keeper.Discard(token)
	return results, nil
}

// RemoveFile removes a file declaration by display name. Without cascade
// the call fails while build entries depend on the file.
func (s *Session) RemoveFile(name string, cascade bool) (*Result, error) {
	return s.run("remove-file", func() (*Result, error) { return s.removeFile(name, cascade) })
}

// Dedupe removes duplicate file memberships from the named build phase.
// Running it a second time is a no-op.
func (s *Session) Dedupe(phaseName string) (*Result, error) {
	return s.run("dedupe", func() (*Result, error) { return s.dedupe(phaseName) })
}

// Validate runs the integrity validator over the current state.
func (s *Session) Validate() []verify.Violation {
	return verify.Validate(s.m)
}

// run wraps one operation in the snapshot / apply / validate / commit
// cycle. The operation computes its full diff against the indexed state
// and applies it; a non-empty violation list afterwards restores the
// snapshot and surfaces an IntegrityError.
func (s *Session) run(op string, apply func() (*Result, error)) (*Result, error) {
	token := s.keeper.Snapshot(s.m)
	res, err := apply()
	if err != nil {
		if rbErr := s.rollback(token); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}
	if !res.Changed() {
		s.keeper.Discard(token)
		return res, nil
	}

	if violations := verify.Validate(s.m); len(violations) > 0 {
		logger.Error("integrity check failed, rolling back",
			logger.String("operation", op),
			logger.Int("violations", len(violations)))
		if rbErr := s.rollback(token); rbErr != nil {
			return nil, rbErr
		}
		return nil, &IntegrityError{Violations: violations}
	}

	idx, err := index.Build(s.m)
	if err != nil {
		// A mutation may not introduce name collisions; treat it like
		// any other integrity failure and roll back.
		if rbErr := s.rollback(token); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}
	s.idx = idx
	s.dirty = true
	s.keeper.Discard(token)
	return res, nil
}

// rollback restores the manifest and index to the snapshot state.
func (s *Session) rollback(token backup.Token) error {
	m, err := s.keeper.Restore(token)
	if err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	idx, err := index.Build(m)
	if err != nil {
		return fmt.Errorf("reindexing restored snapshot: %w", err)
	}
	s.m = m
	s.idx = idx
	s.keeper.Discard(token)
	return nil
}

// Save serializes the manifest back to the file it was opened from,
// writing the on-disk backup copy first when requested.
func (s *Session) Save(withBackup bool, backupSuffix string) error {
	if s.path == "" {
		return fmt.Errorf("session was not opened from a file")
	}
	if withBackup {
		if err := backup.WriteFile(s.path, backupSuffix); err != nil {
			return err
		}
	}
	if err := safeio.WriteFilePreservePerms(s.path, []byte(s.Text())); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	logger.Info("manifest written", logger.String("path", s.path))
	return nil
}
