package coder

import (
	"errors"
	"fmt"
	"strings"
)

// Patch protocol tokens the model is instructed to use.
const (
	searchToken  = "<|SEARCH|>"
	divideToken  = "<|DIVIDE|>"
	replaceToken = "<|REPLACE|>"
)

var (
	ErrBadPatch       = errors.New("malformed patch response")
	ErrEmptyPatch     = errors.New("patch has empty replacement")
	ErrSearchMismatch = errors.New("patch search text does not match file")
)

// Patch is a parsed model response: a span of file text (Search, with the
// cursor token stripped) starting at byte offset Start, and the text that
// should replace it.
type Patch struct {
	Start   int
	Search  string
	Replace string
}

// ParsePatch extracts the search/replace patch from a model response.
// markerOffset is the byte offset of the marker in the file; the patch
// start is derived from it and the cursor position inside the search text.
func ParsePatch(response string, markerOffset int) (*Patch, error) {
	searchStart := strings.Index(response, searchToken)
	if searchStart < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrBadPatch, searchToken)
	}
	divide := strings.Index(response, divideToken)
	if divide < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrBadPatch, divideToken)
	}
	if divide < searchStart {
		return nil, fmt.Errorf("%w: %s before %s", ErrBadPatch, divideToken, searchToken)
	}
	replaceEnd := strings.Index(response[divide:], replaceToken)
	if replaceEnd < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrBadPatch, replaceToken)
	}
	replaceEnd += divide

	search := response[searchStart+len(searchToken) : divide]

	cursorPos := strings.Index(search, CursorToken)
	if cursorPos < 0 {
		return nil, fmt.Errorf("%w: missing %s in search text", ErrBadPatch, CursorToken)
	}

	// Anything after the replace token (trailing chatter) is dropped.
	replace := response[divide+len(divideToken) : replaceEnd]
	replace = strings.ReplaceAll(replace, CursorToken, "")
	if strings.TrimSpace(replace) == "" {
		return nil, ErrEmptyPatch
	}

	before := search[:cursorPos]
	start := markerOffset - len(before)
	if start < 0 {
		start = 0
	}

	return &Patch{
		Start:   start,
		Search:  strings.ReplaceAll(search, CursorToken, ""),
		Replace: replace,
	}, nil
}
