/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

import (
	"regexp"
	"strings"
)

// Serialize renders the manifest back to text. Raw segments and records
// that were never structurally modified are emitted from their original
// bytes; new or modified records are rendered in canonical form.
func Serialize(m *Manifest) string {
	var b strings.Builder
	for _, seg := range m.segments {
		if seg.section == nil {
			for _, line := range seg.raw {
				b.WriteString(line)
			}
			continue
		}
		sec := seg.section
		b.WriteString(sec.beginLine)
		for _, line := range sec.leading {
			b.WriteString(line)
		}
		for _, rec := range sec.Records {
			if rec.dirty || len(rec.raw) == 0 {
				renderRecord(&b, rec)
			} else {
				for _, line := range rec.raw {
					b.WriteString(line)
				}
			}
		}
		b.WriteString(sec.endLine)
	}
	return b.String()
}

// renderRecord writes the canonical text form of a record. Single-line
// for FileDeclaration and BuildEntry, brace-delimited multi-line for
// GroupNode and BuildPhase, matching the layout the parser accepts.
func renderRecord(b *strings.Builder, rec *Record) {
	switch rec.Kind {
	case KindFileDeclaration:
		b.WriteString("\t\t" + rec.ID + " /* " + rec.Name + " */ = {isa = FileDeclaration;")
		if rec.FileType != "" {
			b.WriteString(" fileType = " + quote(rec.FileType) + ";")
		}
		if rec.Path != "" {
			b.WriteString(" path = " + quote(rec.Path) + ";")
		}
		b.WriteString(" };\n")
	case KindBuildEntry:
		b.WriteString("\t\t" + rec.ID + " /* " + rec.Name + " */ = {isa = BuildEntry; fileRef = " + refText(rec.FileRef) + "; };\n")
	case KindGroupNode:
		renderListRecord(b, rec, "children", rec.Children)
	case KindBuildPhase:
		renderListRecord(b, rec, "entries", rec.Entries)
	}
}

func renderListRecord(b *strings.Builder, rec *Record, listName string, refs []Ref) {
	b.WriteString("\t\t" + rec.ID + " /* " + rec.Name + " */ = {\n")
	b.WriteString("\t\t\tisa = " + string(rec.Kind) + ";\n")
	if rec.Name != "" {
		b.WriteString("\t\t\tname = " + quote(rec.Name) + ";\n")
	}
	b.WriteString("\t\t\t" + listName + " = (\n")
	for _, ref := range refs {
		b.WriteString("\t\t\t\t" + refText(ref) + ",\n")
	}
	b.WriteString("\t\t\t);\n")
	b.WriteString("\t\t};\n")
}

func refText(ref Ref) string {
	if ref.Comment == "" {
		return ref.ID
	}
	return ref.ID + " /* " + ref.Comment + " */"
}

var bareValueRe = regexp.MustCompile(`^[A-Za-z0-9_$./+-]+$`)

// quote wraps a value in double quotes when it contains characters the
// bare token form cannot carry.
func quote(v string) string {
	if v != "" && bareValueRe.MatchString(v) {
		return v
	}
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
