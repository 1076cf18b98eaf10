/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package verify checks referential integrity across a manifest's
// sections and renders the findings. A healthy manifest yields an empty
// violation list; anything else blocks a mutation batch from committing.
package verify

import (
	"fmt"

	"github.com/fulmenhq/goproj/pkg/manifest"
)

// ViolationCode classifies an integrity violation.
type ViolationCode string

const (
	CodeDanglingReference   ViolationCode = "dangling-reference"
	CodeDuplicateIdentifier ViolationCode = "duplicate-identifier"
	CodeOrphanedBuildEntry  ViolationCode = "orphaned-build-entry"
	CodeDuplicateName       ViolationCode = "duplicate-name"
)

// Violation is a single integrity finding.
type Violation struct {
	Code     ViolationCode `json:"code" yaml:"code"`
	Referrer string        `json:"referrer,omitempty" yaml:"referrer,omitempty"`
	Missing  string        `json:"missing,omitempty" yaml:"missing,omitempty"`
	Message  string        `json:"message" yaml:"message"`
}

// Validate walks the whole manifest and returns every violation found:
// references that do not resolve to a record of the expected kind,
// identifiers registered twice, build entries no phase owns, and file
// display names declared twice.
func Validate(m *manifest.Manifest) []Violation {
	var violations []Violation

	records := make(map[string]*manifest.Record)
	names := make(map[string]string)
	m.EachRecord(func(rec *manifest.Record) {
		if prior, dup := records[rec.ID]; dup {
			violations = append(violations, Violation{
				Code:     CodeDuplicateIdentifier,
				Referrer: rec.ID,
				Message:  fmt.Sprintf("identifier %s used by both %s and %s records", rec.ID, prior.Kind, rec.Kind),
			})
			return
		}
		records[rec.ID] = rec
		if rec.Kind == manifest.KindFileDeclaration {
			if prior, dup := names[rec.Name]; dup {
				violations = append(violations, Violation{
					Code:     CodeDuplicateName,
					Referrer: rec.ID,
					Message:  fmt.Sprintf("display name %q declared by both %s and %s", rec.Name, prior, rec.ID),
				})
			} else {
				names[rec.Name] = rec.ID
			}
		}
	})

	resolve := func(referrer *manifest.Record, ref manifest.Ref, want ...manifest.Kind) {
		target, ok := records[ref.ID]
		if !ok {
			violations = append(violations, Violation{
				Code:     CodeDanglingReference,
				Referrer: referrer.ID,
				Missing:  ref.ID,
				Message:  fmt.Sprintf("%s %s references missing record %s", referrer.Kind, referrer.ID, ref.ID),
			})
			return
		}
		for _, kind := range want {
			if target.Kind == kind {
				return
			}
		}
		violations = append(violations, Violation{
			Code:     CodeDanglingReference,
			Referrer: referrer.ID,
			Missing:  ref.ID,
			Message:  fmt.Sprintf("%s %s references %s %s where %s expected", referrer.Kind, referrer.ID, target.Kind, target.ID, want),
		})
	}

	owned := make(map[string]int) // BuildEntry ID -> owning phase memberships
	m.EachRecord(func(rec *manifest.Record) {
		switch rec.Kind {
		case manifest.KindBuildEntry:
			resolve(rec, rec.FileRef, manifest.KindFileDeclaration)
		case manifest.KindGroupNode:
			for _, ref := range rec.Children {
				resolve(rec, ref, manifest.KindFileDeclaration, manifest.KindGroupNode)
			}
		case manifest.KindBuildPhase:
			for _, ref := range rec.Entries {
				resolve(rec, ref, manifest.KindBuildEntry)
				owned[ref.ID]++
			}
		}
	})

	for _, rec := range m.Records(manifest.KindBuildEntry) {
		if owned[rec.ID] == 0 {
			violations = append(violations, Violation{
				Code:     CodeOrphanedBuildEntry,
				Referrer: rec.ID,
				Message:  fmt.Sprintf("build entry %s (%s) appears in no build phase", rec.ID, rec.Name),
			})
		}
	}

	return violations
}
