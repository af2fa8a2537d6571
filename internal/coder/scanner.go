package coder

import (
	"strings"
	"unicode/utf8"
)

// Location describes where a marker occurrence sits in file content.
type Location struct {
	Offset   int    // byte offset of the marker's first byte
	Line     int    // 0-based line number
	Column   int    // byte column within the line
	LineText string // full text of the line holding the marker
}

// FindMarker returns the location of the first occurrence of marker in
// content. Only the first (lowest offset) occurrence is reported; later
// ones get their turn on a subsequent save. Content that does not decode
// as text (invalid UTF-8 or NUL bytes) is treated as binary and yields
// no match.
func FindMarker(content, marker string) (Location, bool) {
	if marker == "" || !utf8.ValidString(content) || strings.IndexByte(content, 0) >= 0 {
		return Location{}, false
	}

	idx := strings.Index(content, marker)
	if idx < 0 {
		return Location{}, false
	}

	line := strings.Count(content[:idx], "\n")
	lineStart := strings.LastIndexByte(content[:idx], '\n') + 1
	lineEnd := strings.IndexByte(content[idx:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content)
	} else {
		lineEnd += idx
	}

	return Location{
		Offset:   idx,
		Line:     line,
		Column:   idx - lineStart,
		LineText: content[lineStart:lineEnd],
	}, true
}
