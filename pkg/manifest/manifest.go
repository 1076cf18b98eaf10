/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package manifest provides the in-memory representation of a project
// manifest: four cross-referenced record sections plus any surrounding
// text, which survives a parse/serialize round trip byte-for-byte.
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the four record section kinds.
type Kind string

const (
	KindFileDeclaration Kind = "FileDeclaration"
	KindBuildEntry      Kind = "BuildEntry"
	KindGroupNode       Kind = "GroupNode"
	KindBuildPhase      Kind = "BuildPhase"
)

// Kinds lists all section kinds in their conventional document order.
var Kinds = []Kind{KindBuildEntry, KindFileDeclaration, KindGroupNode, KindBuildPhase}

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed manifest")

// ErrUnknownSection is returned when a caller asks for a section kind the
// document does not contain.
var ErrUnknownSection = errors.New("section not present in manifest")

// Ref is a reference to another record by identifier. The comment is the
// human-readable annotation carried next to the identifier in the text.
type Ref struct {
	ID      string
	Comment string
}

// Record is a single entry in a section. Only the fields matching the
// record's kind are populated.
type Record struct {
	ID   string
	Kind Kind
	Name string // display name from the /* ... */ comment

	Path     string // FileDeclaration
	FileType string // FileDeclaration
	FileRef  Ref    // BuildEntry
	Children []Ref  // GroupNode, ordered
	Entries  []Ref  // BuildPhase, ordered

	raw   []string // original lines, with line terminators
	dirty bool
}

// Dirty reports whether the record must be re-rendered on serialization.
func (r *Record) Dirty() bool { return r.dirty }

// MarkDirty forces canonical rendering of the record on serialization.
func (r *Record) MarkDirty() { r.dirty = true }

// Refs returns the record's ordered reference list (group children or
// phase entries), or nil for record kinds that carry none.
func (r *Record) Refs() []Ref {
	switch r.Kind {
	case KindGroupNode:
		return r.Children
	case KindBuildPhase:
		return r.Entries
	}
	return nil
}

// AppendRef appends a reference to the record's ordered list. Only valid
// for GroupNode and BuildPhase records.
func (r *Record) AppendRef(ref Ref) error {
	switch r.Kind {
	case KindGroupNode:
		r.Children = append(r.Children, ref)
	case KindBuildPhase:
		r.Entries = append(r.Entries, ref)
	default:
		return fmt.Errorf("record %s (%s) has no reference list", r.ID, r.Kind)
	}
	r.dirty = true
	return nil
}

// RemoveRefs drops every reference to id from the record's ordered list
// and returns the number removed.
func (r *Record) RemoveRefs(id string) int {
	var list *[]Ref
	switch r.Kind {
	case KindGroupNode:
		list = &r.Children
	case KindBuildPhase:
		list = &r.Entries
	default:
		return 0
	}
	kept := (*list)[:0]
	removed := 0
	for _, ref := range *list {
		if ref.ID == id {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	if removed > 0 {
		*list = kept
		r.dirty = true
	}
	return removed
}

// SetRefs replaces the record's ordered reference list.
func (r *Record) SetRefs(refs []Ref) {
	switch r.Kind {
	case KindGroupNode:
		r.Children = refs
	case KindBuildPhase:
		r.Entries = refs
	}
	r.dirty = true
}

// EntryFileName strips the " in <phase>" suffix a BuildEntry display
// name carries, leaving the underlying file's display name.
func EntryFileName(name string) string {
	if i := strings.Index(name, " in "); i >= 0 {
		return name[:i]
	}
	return name
}

// Section is an ordered collection of records of one kind, bracketed by
// the begin/end marker lines exactly as they appeared in the input.
// Blank lines between the begin marker and the first record are kept in
// leading so an unmutated section serializes back byte-for-byte.
type Section struct {
	Kind    Kind
	Records []*Record

	beginLine string
	endLine   string
	leading   []string
}

// Append adds a record at the end of the section.
func (s *Section) Append(rec *Record) {
	rec.dirty = true
	s.Records = append(s.Records, rec)
}

// Remove deletes the record with the given identifier, reporting whether
// it was present.
func (s *Section) Remove(id string) bool {
	for i, rec := range s.Records {
		if rec.ID == id {
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			return true
		}
	}
	return false
}

// segment is one contiguous region of the document: either verbatim text
// we do not interpret, or a recognized section.
type segment struct {
	raw     []string // nil when section != nil
	section *Section
}

// Manifest is the whole document: an ordered list of raw and section
// segments. It exclusively owns all sections and records.
type Manifest struct {
	segments []segment
	sections map[Kind]*Section
}

// Section returns the section of the given kind.
func (m *Manifest) Section(kind Kind) (*Section, error) {
	sec, ok := m.sections[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownSection)
	}
	return sec, nil
}

// HasSection reports whether the document contains a section of the kind.
func (m *Manifest) HasSection(kind Kind) bool {
	_, ok := m.sections[kind]
	return ok
}

// Records returns the ordered records of the given kind, or nil when the
// section is absent.
func (m *Manifest) Records(kind Kind) []*Record {
	sec, ok := m.sections[kind]
	if !ok {
		return nil
	}
	return sec.Records
}

// EachRecord visits every record in document order.
func (m *Manifest) EachRecord(fn func(*Record)) {
	for _, seg := range m.segments {
		if seg.section == nil {
			continue
		}
		for _, rec := range seg.section.Records {
			fn(rec)
		}
	}
}

// IDs returns the set of every identifier currently present, including
// identifiers that are only referenced. Used for collision-checked
// identifier generation.
func (m *Manifest) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	m.EachRecord(func(rec *Record) {
		ids[rec.ID] = struct{}{}
		if rec.FileRef.ID != "" {
			ids[rec.FileRef.ID] = struct{}{}
		}
		for _, ref := range rec.Refs() {
			ids[ref.ID] = struct{}{}
		}
	})
	return ids
}

// Clone produces a deep copy sharing no mutable state with the receiver.
// Snapshots for rollback are taken this way.
func (m *Manifest) Clone() *Manifest {
	out := &Manifest{sections: make(map[Kind]*Section, len(m.sections))}
	out.segments = make([]segment, 0, len(m.segments))
	for _, seg := range m.segments {
		if seg.section == nil {
			raw := make([]string, len(seg.raw))
			copy(raw, seg.raw)
			out.segments = append(out.segments, segment{raw: raw})
			continue
		}
		src := seg.section
		dst := &Section{
			Kind:      src.Kind,
			beginLine: src.beginLine,
			endLine:   src.endLine,
			leading:   append([]string(nil), src.leading...),
			Records:   make([]*Record, 0, len(src.Records)),
		}
		for _, rec := range src.Records {
			cp := *rec
			cp.raw = append([]string(nil), rec.raw...)
			cp.Children = append([]Ref(nil), rec.Children...)
			cp.Entries = append([]Ref(nil), rec.Entries...)
			dst.Records = append(dst.Records, &cp)
		}
		out.segments = append(out.segments, segment{section: dst})
		out.sections[dst.Kind] = dst
	}
	return out
}
