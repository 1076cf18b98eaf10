/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package planner computes and applies manifest mutations. Every
// operation resolves its targets against the current index before any
// record is touched, applies its whole diff in one step, and is followed
// by an integrity check; a failed check rolls the manifest back to the
// snapshot taken at the start of the batch.
package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/goproj/internal/verify"
	"github.com/fulmenhq/goproj/pkg/manifest"
)

var (
	// ErrTargetNotFound reports a missing phase or group target.
	ErrTargetNotFound = errors.New("target not found")
	// ErrNotFound reports a missing file declaration.
	ErrNotFound = errors.New("file not found")
	// ErrDependentsExist guards non-cascading removal of a file that
	// still has build entries depending on it.
	ErrDependentsExist = errors.New("dependents exist")
)

// IntegrityError reports that a mutation batch produced violations and
// was rolled back.
type IntegrityError struct {
	Violations []verify.Violation
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("mutation rolled back, %d integrity violation(s): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}

// Status describes how an operation concluded.
type Status string

const (
	// StatusApplied means the manifest was changed.
	StatusApplied Status = "applied"
	// StatusAlreadyPresent means addFile found the file and did nothing.
	StatusAlreadyPresent Status = "already-present"
	// StatusNoChange means the operation was a no-op (e.g. dedupe with
	// nothing to remove).
	StatusNoChange Status = "no-change"
)

// Result reports the outcome of one mutation operation. Idempotent
// no-ops are successes with an informational status, not errors.
type Result struct {
	Status  Status   `json:"status"`
	FileID  string   `json:"file_id,omitempty"`
	EntryID string   `json:"entry_id,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

// Changed reports whether the manifest differs from before the call.
func (r *Result) Changed() bool { return r.Status == StatusApplied }

// AddFileSpec carries the arguments of an addFile operation.
type AddFileSpec struct {
	DisplayName string
	Path        string
	FileType    string
	Phase       string
	Group       string
}

// addFile plans and applies a single file addition against the session's
// current manifest and index. Callers go through Session.AddFile, which
// wraps the snapshot/validate/rollback cycle around it.
func (s *Session) addFile(spec AddFileSpec) (*Result, error) {
	if _, present := s.idx.FileByName(spec.DisplayName); present {
		return &Result{
			Status: StatusAlreadyPresent,
			Detail: fmt.Sprintf("%q already declared", spec.DisplayName),
		}, nil
	}

	phase, ok := s.idx.NamedRecord(manifest.KindBuildPhase, spec.Phase)
	if !ok {
		return nil, fmt.Errorf("build phase %q: %w", spec.Phase, ErrTargetNotFound)
	}
	group, ok := s.idx.NamedRecord(manifest.KindGroupNode, spec.Group)
	if !ok {
		return nil, fmt.Errorf("group %q: %w", spec.Group, ErrTargetNotFound)
	}
	fileSec, err := s.m.Section(manifest.KindFileDeclaration)
	if err != nil {
		return nil, err
	}
	entrySec, err := s.m.Section(manifest.KindBuildEntry)
	if err != nil {
		return nil, err
	}

	ids := s.m.IDs()
	fileID, err := s.gen.Next(ids)
	if err != nil {
		return nil, err
	}
	entryID, err := s.gen.Next(ids)
	if err != nil {
		return nil, err
	}

	entryName := spec.DisplayName + " in " + phase.Name
	fileSec.Append(&manifest.Record{
		ID:       fileID,
		Kind:     manifest.KindFileDeclaration,
		Name:     spec.DisplayName,
		Path:     spec.Path,
		FileType: spec.FileType,
	})
	entrySec.Append(&manifest.Record{
		ID:      entryID,
		Kind:    manifest.KindBuildEntry,
		Name:    entryName,
		FileRef: manifest.Ref{ID: fileID, Comment: spec.DisplayName},
	})
	if err := phase.AppendRef(manifest.Ref{ID: entryID, Comment: entryName}); err != nil {
		return nil, err
	}
	if err := group.AppendRef(manifest.Ref{ID: fileID, Comment: spec.DisplayName}); err != nil {
		return nil, err
	}

	return &Result{Status: StatusApplied, FileID: fileID, EntryID: entryID}, nil
}

// removeFile plans and applies removal of a file declaration. Without
// cascade it refuses while build entries still depend on the file; with
// cascade it removes the declaration, its entries, and every phase and
// group reference in one diff.
func (s *Session) removeFile(name string, cascade bool) (*Result, error) {
	file, ok := s.idx.FileByName(name)
	if !ok {
		return nil, fmt.Errorf("file %q: %w", name, ErrNotFound)
	}

	entries := s.idx.EntriesForFile(file.ID)
	if !cascade && len(entries) > 0 {
		return nil, fmt.Errorf("file %q has %d build entr%s (pass cascade to remove): %w",
			name, len(entries), plural(len(entries), "y", "ies"), ErrDependentsExist)
	}

	removed := []string{file.ID}
	fileSec, err := s.m.Section(manifest.KindFileDeclaration)
	if err != nil {
		return nil, err
	}
	fileSec.Remove(file.ID)

	if len(entries) > 0 {
		entrySec, err := s.m.Section(manifest.KindBuildEntry)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			entrySec.Remove(entry.ID)
			removed = append(removed, entry.ID)
			for _, phase := range s.m.Records(manifest.KindBuildPhase) {
				phase.RemoveRefs(entry.ID)
			}
		}
	}
	for _, group := range s.m.Records(manifest.KindGroupNode) {
		group.RemoveRefs(file.ID)
	}

	return &Result{Status: StatusApplied, FileID: file.ID, Removed: removed}, nil
}

// dedupe removes repeated memberships from a build phase, keeping the
// first occurrence of each underlying file. Build entries left without
// any owning phase are removed with their membership so the manifest
// stays orphan-free.
func (s *Session) dedupe(phaseName string) (*Result, error) {
	phase, ok := s.idx.NamedRecord(manifest.KindBuildPhase, phaseName)
	if !ok {
		return nil, fmt.Errorf("build phase %q: %w", phaseName, ErrTargetNotFound)
	}

	seen := make(map[string]struct{})
	kept := make([]manifest.Ref, 0, len(phase.Entries))
	var droppedEntries []string
	for _, ref := range phase.Entries {
		name := s.entryFileName(ref)
		if _, dup := seen[name]; dup {
			droppedEntries = append(droppedEntries, ref.ID)
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, ref)
	}
	if len(droppedEntries) == 0 {
		return &Result{Status: StatusNoChange, Detail: "no duplicate memberships"}, nil
	}

	phase.SetRefs(kept)

	// Drop the build entry records whose only membership was removed.
	removed := append([]string(nil), droppedEntries...)
	entrySec, err := s.m.Section(manifest.KindBuildEntry)
	if err != nil {
		return nil, err
	}
	for _, id := range droppedEntries {
		if s.entryStillOwned(id) {
			continue
		}
		entrySec.Remove(id)
	}

	return &Result{
		Status:  StatusApplied,
		Removed: removed,
		Detail:  fmt.Sprintf("removed %d duplicate membership(s)", len(droppedEntries)),
	}, nil
}

// entryFileName resolves a phase membership reference to the underlying
// file display name, falling back to the reference comment when the
// chain is broken.
func (s *Session) entryFileName(ref manifest.Ref) string {
	if entry, ok := s.idx.Record(ref.ID); ok && entry.Kind == manifest.KindBuildEntry {
		if file, ok := s.idx.Record(entry.FileRef.ID); ok {
			return file.Name
		}
		return manifest.EntryFileName(entry.Name)
	}
	return manifest.EntryFileName(ref.Comment)
}

func (s *Session) entryStillOwned(entryID string) bool {
	for _, phase := range s.m.Records(manifest.KindBuildPhase) {
		for _, ref := range phase.Entries {
			if ref.ID == entryID {
				return true
			}
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
