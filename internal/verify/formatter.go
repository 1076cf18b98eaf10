/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Format renders a report in the requested output format: "pretty"
// (aligned human-readable columns), "json", or "yaml".
func Format(report *Report, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding report: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("encoding report: %w", err)
		}
		return string(data), nil
	case "pretty", "":
		return formatPretty(report), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func formatPretty(report *Report) string {
	titler := cases.Title(language.English)
	var b strings.Builder

	for _, res := range report.Results {
		fmt.Fprintf(&b, "%s\n", res.Manifest)
		switch {
		case res.Error != "":
			fmt.Fprintf(&b, "  %s: %s\n", titler.String("error"), res.Error)
		case res.Healthy:
			fmt.Fprintf(&b, "  %s (%d records)\n", titler.String("healthy"), res.Records)
		default:
			b.WriteString(violationTable(res.Violations))
		}
		b.WriteString("\n")
	}

	if report.Healthy {
		fmt.Fprintf(&b, "%d manifest(s) verified, no violations\n", len(report.Results))
	} else {
		fmt.Fprintf(&b, "%d manifest(s) verified, violations found\n", len(report.Results))
	}
	return b.String()
}

// violationTable renders violations as aligned columns. Widths are
// computed with runewidth so wide runes in display names do not skew
// the layout.
func violationTable(violations []Violation) string {
	headers := []string{"CODE", "REFERRER", "MISSING", "MESSAGE"}
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, []string{string(v.Code), v.Referrer, v.Missing, v.Message})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("  ")
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]+2))
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
