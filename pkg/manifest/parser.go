/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	beginMarkerRe = regexp.MustCompile(`^\s*/\* Begin (FileDeclaration|BuildEntry|GroupNode|BuildPhase) section \*/$`)
	endMarkerRe   = regexp.MustCompile(`^\s*/\* End (FileDeclaration|BuildEntry|GroupNode|BuildPhase) section \*/$`)
	recordStartRe = regexp.MustCompile(`^\s*([0-9A-F]{24}) /\* (.*?) \*/ = \{(.*)$`)
	fieldRe       = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*) = (.*);$`)
	listStartRe   = regexp.MustCompile(`^(children|entries) = \($`)
	refLineRe     = regexp.MustCompile(`^\s*([0-9A-F]{24})(?: /\* (.*?) \*/)?,?$`)
	refValueRe    = regexp.MustCompile(`^([0-9A-F]{24})(?: /\* (.*?) \*/)?$`)
)

func malformedf(line int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrMalformed)
}

// Parse reads a manifest document. Regions outside the four recognized
// sections are kept verbatim so an unmutated manifest serializes back to
// the identical bytes.
func Parse(text string) (*Manifest, error) {
	lines := splitLines(text)
	m := &Manifest{sections: make(map[Kind]*Section)}

	var raw []string
	flushRaw := func() {
		if len(raw) > 0 {
			m.segments = append(m.segments, segment{raw: raw})
			raw = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		match := beginMarkerRe.FindStringSubmatch(chomp(line))
		if match == nil {
			raw = append(raw, line)
			i++
			continue
		}
		kind := Kind(match[1])
		if _, dup := m.sections[kind]; dup {
			return nil, malformedf(i+1, "duplicate %s section", kind)
		}
		flushRaw()
		sec, next, err := parseSection(lines, i, kind)
		if err != nil {
			return nil, err
		}
		m.segments = append(m.segments, segment{section: sec})
		m.sections[kind] = sec
		i = next
	}
	flushRaw()
	return m, nil
}

// parseSection consumes a section starting at the begin marker, returning
// the section and the index just past the end marker.
func parseSection(lines []string, start int, kind Kind) (*Section, int, error) {
	sec := &Section{Kind: kind, beginLine: lines[start]}
	i := start + 1
	for i < len(lines) {
		trimmed := strings.TrimSpace(chomp(lines[i]))
		if end := endMarkerRe.FindStringSubmatch(chomp(lines[i])); end != nil {
			if Kind(end[1]) != kind {
				return nil, 0, malformedf(i+1, "section %s closed by end marker for %s", kind, end[1])
			}
			sec.endLine = lines[i]
			return sec, i + 1, nil
		}
		if trimmed == "" {
			// Blank separator lines between records belong to the
			// preceding record's raw text; before the first record they
			// are the section's leading whitespace.
			if n := len(sec.Records); n > 0 {
				sec.Records[n-1].raw = append(sec.Records[n-1].raw, lines[i])
			} else {
				sec.leading = append(sec.leading, lines[i])
			}
			i++
			continue
		}
		startMatch := recordStartRe.FindStringSubmatch(chomp(lines[i]))
		if startMatch == nil {
			return nil, 0, malformedf(i+1, "unrecognized record in %s section", kind)
		}
		rec, next, err := parseRecord(lines, i, kind, startMatch)
		if err != nil {
			return nil, 0, err
		}
		sec.Records = append(sec.Records, rec)
		i = next
	}
	return nil, 0, malformedf(start+1, "%s section has no end marker", kind)
}

// parseRecord consumes one record, single-line or brace-delimited, and
// returns it along with the index of the following line.
func parseRecord(lines []string, start int, kind Kind, head []string) (*Record, int, error) {
	rec := &Record{ID: head[1], Kind: kind, Name: head[2]}
	rest := head[3]

	if idx := inlineBodyEnd(rest); idx >= 0 {
		// Single-line form: every field sits between the braces.
		rec.raw = []string{lines[start]}
		if err := parseInlineFields(rec, rest[:idx], start); err != nil {
			return nil, 0, err
		}
		return rec, start + 1, nil
	}
	if strings.TrimSpace(rest) != "" {
		return nil, 0, malformedf(start+1, "unexpected text after record opening brace")
	}

	rec.raw = []string{lines[start]}
	i := start + 1
	for i < len(lines) {
		line := chomp(lines[i])
		trimmed := strings.TrimSpace(line)
		if endMarkerRe.MatchString(line) {
			return nil, 0, malformedf(i+1, "record %s not closed before section end", rec.ID)
		}
		rec.raw = append(rec.raw, lines[i])
		switch {
		case trimmed == "};":
			return rec, i + 1, nil
		case listStartRe.MatchString(trimmed):
			listName := listStartRe.FindStringSubmatch(trimmed)[1]
			refs, next, err := parseRefList(lines, i+1, rec)
			if err != nil {
				return nil, 0, err
			}
			if err := setListField(rec, listName, refs, i); err != nil {
				return nil, 0, err
			}
			i = next
			continue
		default:
			if f := fieldRe.FindStringSubmatch(trimmed); f != nil {
				if err := setField(rec, f[1], f[2], i); err != nil {
					return nil, 0, err
				}
			} else {
				return nil, 0, malformedf(i+1, "unrecognized line in record %s", rec.ID)
			}
		}
		i++
	}
	return nil, 0, malformedf(start+1, "record %s has no closing brace", rec.ID)
}

// parseRefList consumes identifier lines until the closing parenthesis,
// appending the consumed lines to the record's raw text.
func parseRefList(lines []string, start int, rec *Record) ([]Ref, int, error) {
	var refs []Ref
	i := start
	for i < len(lines) {
		line := chomp(lines[i])
		trimmed := strings.TrimSpace(line)
		rec.raw = append(rec.raw, lines[i])
		if trimmed == ");" {
			return refs, i + 1, nil
		}
		ref := refLineRe.FindStringSubmatch(trimmed)
		if ref == nil {
			return nil, 0, malformedf(i+1, "unrecognized reference in record %s", rec.ID)
		}
		refs = append(refs, Ref{ID: ref[1], Comment: ref[2]})
		i++
	}
	return nil, 0, malformedf(start, "reference list in record %s has no closing parenthesis", rec.ID)
}

// parseInlineFields handles the `k = v; k = v;` body of a single-line
// record.
func parseInlineFields(rec *Record, body string, lineIdx int) error {
	for _, part := range splitInlineFields(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.Index(part, " = ")
		if eq < 0 {
			return malformedf(lineIdx+1, "unrecognized field %q in record %s", part, rec.ID)
		}
		if err := setField(rec, part[:eq], part[eq+3:], lineIdx); err != nil {
			return err
		}
	}
	return nil
}

// inlineBodyEnd returns the index of the closing "};" of a single-line
// record body, ignoring any "};" inside a quoted value, or -1 when the
// record continues on the following lines.
func inlineBodyEnd(rest string) int {
	inQuote := false
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '}':
			if !inQuote && i+1 < len(rest) && rest[i+1] == ';' {
				return i
			}
		}
	}
	return -1
}

// splitInlineFields splits a record body on the semicolons that sit
// outside quoted values.
func splitInlineFields(body string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	if start < len(body) {
		parts = append(parts, body[start:])
	}
	return parts
}

func setField(rec *Record, key, value string, lineIdx int) error {
	value = unquote(value)
	switch key {
	case "isa":
		if Kind(value) != rec.Kind {
			return malformedf(lineIdx+1, "record %s declares isa %s inside %s section", rec.ID, value, rec.Kind)
		}
	case "name":
		rec.Name = value
	case "path":
		rec.Path = value
	case "fileType":
		rec.FileType = value
	case "fileRef":
		ref := refValueRe.FindStringSubmatch(value)
		if ref == nil {
			return malformedf(lineIdx+1, "record %s has malformed fileRef %q", rec.ID, value)
		}
		rec.FileRef = Ref{ID: ref[1], Comment: ref[2]}
	default:
		// Unknown fields survive through the record's raw text as long
		// as the record is never structurally modified.
	}
	return nil
}

func setListField(rec *Record, name string, refs []Ref, lineIdx int) error {
	switch {
	case name == "children" && rec.Kind == KindGroupNode:
		rec.Children = refs
	case name == "entries" && rec.Kind == KindBuildPhase:
		rec.Entries = refs
	default:
		return malformedf(lineIdx+1, "record %s (%s) carries unexpected %s list", rec.ID, rec.Kind, name)
	}
	return nil
}

// splitLines splits text keeping each line's terminator so raw segments
// can be re-emitted byte-for-byte.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// chomp strips the line terminator for matching; raw storage keeps it.
func chomp(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// unquote removes surrounding double quotes and unescapes the two escape
// sequences the format uses.
func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		inner := v[1 : len(v)-1]
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		inner = strings.ReplaceAll(inner, `\\`, `\`)
		return inner
	}
	return v
}
