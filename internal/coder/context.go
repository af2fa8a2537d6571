package coder

import (
	"path/filepath"
	"strings"

	"github.com/youruser/anycoder/internal/llm"
)

// CursorToken replaces the marker inside context windows sent to the model.
const CursorToken = "<|cursor|>"

// Window is a slice of file content around the marker, with the marker
// itself replaced by CursorToken. Start is the byte offset in the full
// file where the window begins (before the token substitution).
type Window struct {
	Text  string
	Start int
}

// BuildWindow extracts contextLines lines either side of the marker line.
// Near the start or end of the file the window shifts rather than shrinks,
// so it always spans 2*contextLines+1 lines when the file has that many.
func BuildWindow(content string, loc Location, contextLines int, marker string) Window {
	lines := strings.Split(content, "\n")

	before := contextLines
	after := contextLines
	maxRow := len(lines) - 1

	if loc.Line < contextLines {
		after += contextLines - loc.Line
	} else if loc.Line+contextLines > maxRow {
		before += loc.Line + contextLines - maxRow
	}

	startLine := loc.Line - before
	if startLine < 0 {
		startLine = 0
	}
	endLine := loc.Line + after
	if endLine > maxRow {
		endLine = maxRow
	}

	window := strings.Join(lines[startLine:endLine+1], "\n")

	// The marker's window-relative offset anchors the window in the file.
	rel := strings.Index(window, marker)
	start := loc.Offset
	if rel >= 0 {
		start = loc.Offset - rel
	}

	return Window{
		Text:  strings.Replace(window, marker, CursorToken, 1),
		Start: start,
	}
}

// BuildBoundedWindow extracts up to maxLines of context but shrinks the
// window until it fits maxTokens, so large files cannot blow the request
// budget. It never shrinks below minLines.
func BuildBoundedWindow(content string, loc Location, maxLines, minLines, maxTokens int, marker string) Window {
	n := maxLines
	w := BuildWindow(content, loc, n, marker)

	for n > minLines && !llm.FitsBudget(w.Text, maxTokens) {
		n /= 2
		if n < minLines {
			n = minLines
		}
		w = BuildWindow(content, loc, n, marker)
	}

	return w
}

// languageHints maps file extensions to the language names used in prompts.
var languageHints = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".c":     "c",
	".h":     "c",
	".cpp":   "c++",
	".cc":    "c++",
	".hpp":   "c++",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".cs":    "csharp",
	".sh":    "shell",
	".lua":   "lua",
	".zig":   "zig",
	".ex":    "elixir",
	".exs":   "elixir",
	".html":  "html",
	".css":   "css",
	".sql":   "sql",
}

// LanguageHint derives a language name from a file path's extension.
// Unknown extensions yield "" and the completion proceeds without a hint.
func LanguageHint(path string) string {
	return languageHints[strings.ToLower(filepath.Ext(path))]
}
