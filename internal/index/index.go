/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package index builds lookup tables over a parsed manifest: identifier
// to record across all sections, and file display name to declaration
// identifier. The index is rebuilt after every mutation batch and never
// mutated in place.
package index

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/goproj/pkg/manifest"
)

// ErrDuplicateName is wrapped when two file declarations register the
// same display name. The collision is reported, not resolved: callers
// decide cascade or merge policy.
var ErrDuplicateName = errors.New("duplicate display name")

// Index holds the lookup tables for one manifest state.
type Index struct {
	byID    map[string]*manifest.Record
	byName  map[string]string // file display name -> FileDeclaration ID
	ordered []*manifest.Record
}

// Build constructs the index. It fails with ErrDuplicateName when two
// FileDeclaration records share a display name.
func Build(m *manifest.Manifest) (*Index, error) {
	idx := &Index{
		byID:   make(map[string]*manifest.Record),
		byName: make(map[string]string),
	}
	var err error
	m.EachRecord(func(rec *manifest.Record) {
		if err != nil {
			return
		}
		idx.byID[rec.ID] = rec
		idx.ordered = append(idx.ordered, rec)
		if rec.Kind != manifest.KindFileDeclaration {
			return
		}
		if prior, dup := idx.byName[rec.Name]; dup {
			err = fmt.Errorf("%q declared by both %s and %s: %w", rec.Name, prior, rec.ID, ErrDuplicateName)
			return
		}
		idx.byName[rec.Name] = rec.ID
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Record resolves an identifier to its record.
func (idx *Index) Record(id string) (*manifest.Record, bool) {
	rec, ok := idx.byID[id]
	return rec, ok
}

// FileByName resolves a file display name to its FileDeclaration.
func (idx *Index) FileByName(name string) (*manifest.Record, bool) {
	id, ok := idx.byName[name]
	if !ok {
		return nil, false
	}
	return idx.Record(id)
}

// NamedRecord finds a record of the given kind by its display name.
// Groups and phases are addressed this way on the command line.
func (idx *Index) NamedRecord(kind manifest.Kind, name string) (*manifest.Record, bool) {
	for _, rec := range idx.records(kind) {
		if rec.Name == name {
			return rec, true
		}
	}
	return nil, false
}

// EntriesForFile returns, in document order, every BuildEntry whose
// fileRef points at the given FileDeclaration identifier.
func (idx *Index) EntriesForFile(fileID string) []*manifest.Record {
	var out []*manifest.Record
	for _, rec := range idx.ordered {
		if rec.Kind == manifest.KindBuildEntry && rec.FileRef.ID == fileID {
			out = append(out, rec)
		}
	}
	return out
}

func (idx *Index) records(kind manifest.Kind) []*manifest.Record {
	var out []*manifest.Record
	for _, rec := range idx.ordered {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}
