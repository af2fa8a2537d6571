package diff

import (
	"fmt"
	"sort"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// TextEdit is a single byte-range replacement against some base text.
// Start and End are byte offsets; End is exclusive. An insertion has
// Start == End; a deletion has empty Text.
type TextEdit struct {
	Start int
	End   int
	Text  string
}

// ComputeEdits diffs old against new character-by-character and returns
// the minimal set of byte-range edits that transforms old into new.
// Adjacent delete/insert pairs are coalesced into single replacements.
func ComputeEdits(old, new string) []TextEdit {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupEfficiency(diffs)

	var edits []TextEdit
	oldPos := 0

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldPos += len(d.Text)

		case diffmatchpatch.DiffDelete:
			start := oldPos
			end := start + len(d.Text)
			if n := len(edits); n > 0 && edits[n-1].End == start && edits[n-1].Text == "" {
				edits[n-1].End = end
			} else {
				edits = append(edits, TextEdit{Start: start, End: end})
			}
			oldPos = end

		case diffmatchpatch.DiffInsert:
			if n := len(edits); n > 0 && edits[n-1].End == oldPos {
				edits[n-1].Text += d.Text
			} else {
				edits = append(edits, TextEdit{Start: oldPos, End: oldPos, Text: d.Text})
			}
		}
	}

	return edits
}

// OffsetEdits shifts every edit by delta bytes. Used to translate edits
// computed against a context window into whole-file offsets.
func OffsetEdits(edits []TextEdit, delta int) []TextEdit {
	shifted := make([]TextEdit, len(edits))
	for i, e := range edits {
		shifted[i] = TextEdit{Start: e.Start + delta, End: e.End + delta, Text: e.Text}
	}
	return shifted
}

// ApplyEdits applies edits to content and returns the result. Edits are
// applied back-to-front so earlier offsets stay valid. Out-of-bounds or
// inverted ranges are an error; nothing is partially applied.
func ApplyEdits(content string, edits []TextEdit) (string, error) {
	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(content) {
			return "", fmt.Errorf("edit out of bounds: [%d, %d) in %d bytes", e.Start, e.End, len(content))
		}
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	result := content
	for _, e := range sorted {
		result = result[:e.Start] + e.Text + result[e.End:]
	}

	return result, nil
}
