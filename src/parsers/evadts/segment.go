// src/parsers/evadts/segment.go
package evadts

import (
	"strings"
)

const fieldDelimiter = "*"

// dataSegment is one tagged line of the dump, e.g. "CA2*2700*12".
type dataSegment struct {
	tag    string
	fields []string
	pos    int // Position in the segment index, set by newSegmentIndex
}

// splitLines returns the non-blank lines of text in order. Both CRLF and LF are accepted.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// tokenize splits a line into its tag and positional fields.
func tokenize(line string) dataSegment {
	parts := strings.Split(strings.TrimRight(line, "\r"), fieldDelimiter)
	return dataSegment{
		tag:    strings.TrimSpace(parts[0]),
		fields: parts[1:],
	}
}

// field returns the raw value at index, or "" when out of range or blank.
func (s *dataSegment) field(index int) string {
	if s == nil || index < 0 || index >= len(s.fields) {
		return ""
	}
	return strings.TrimSpace(s.fields[index])
}
