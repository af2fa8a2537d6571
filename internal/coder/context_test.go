package coder

import (
	"strings"
	"testing"
)

const sampleCode = `fn main() {
    for i in 0..5 {
        println!("Current value: {}", ??);
    }
}
`

func TestBuildWindow(t *testing.T) {
	t.Run("window anchors to file offset", func(t *testing.T) {
		loc, found := FindMarker(sampleCode, "??")
		if !found {
			t.Fatal("marker not found")
		}

		w := BuildWindow(sampleCode, loc, 1, "??")

		if !strings.Contains(w.Text, CursorToken) {
			t.Error("window should contain the cursor token")
		}
		if strings.Contains(w.Text, "??") {
			t.Error("window should not contain the raw marker")
		}
		// One line of context either side: window starts at line 1,
		// whose first byte is offset 12.
		if w.Start != 12 {
			t.Errorf("Start = %d, want 12", w.Start)
		}
	})

	t.Run("marker near top shifts window down", func(t *testing.T) {
		content := "x = ??\nline2\nline3\nline4\nline5\nline6\n"
		loc, _ := FindMarker(content, "??")

		w := BuildWindow(content, loc, 2, "??")

		if w.Start != 0 {
			t.Errorf("Start = %d, want 0", w.Start)
		}
		// 2 lines of context, marker on line 0: the window borrows the
		// unused lines above and extends further below.
		gotLines := len(strings.Split(w.Text, "\n"))
		if gotLines != 5 {
			t.Errorf("window spans %d lines, want 5", gotLines)
		}
	})

	t.Run("whole file when context exceeds it", func(t *testing.T) {
		content := "a\nb = ??\nc\n"
		loc, _ := FindMarker(content, "??")

		w := BuildWindow(content, loc, 100, "??")

		want := strings.Replace(content, "??", CursorToken, 1)
		// Split keeps the trailing empty segment, so the joined window
		// equals the full content.
		if w.Text != want {
			t.Errorf("window = %q, want full content", w.Text)
		}
		if w.Start != 0 {
			t.Errorf("Start = %d, want 0", w.Start)
		}
	})
}

func TestBuildBoundedWindow(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("some_function_call(with, many, arguments);\n")
	}
	sb.WriteString("let x = ??;\n")
	for i := 0; i < 500; i++ {
		sb.WriteString("another_function_call(more, arguments, here);\n")
	}
	content := sb.String()

	loc, found := FindMarker(content, "??")
	if !found {
		t.Fatal("marker not found")
	}

	small := BuildBoundedWindow(content, loc, 1000, 3, 50, "??")
	large := BuildBoundedWindow(content, loc, 1000, 3, 1_000_000, "??")

	if len(small.Text) >= len(large.Text) {
		t.Errorf("tight budget window (%d bytes) should be smaller than loose one (%d bytes)",
			len(small.Text), len(large.Text))
	}
	if !strings.Contains(small.Text, CursorToken) {
		t.Error("bounded window lost the cursor token")
	}
}

func TestLanguageHint(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"src/lib.rs", "rust"},
		{"script.PY", "python"},
		{"component.tsx", "typescript"},
		{"README.md", ""},
		{"Makefile", ""},
		{"noext", ""},
	}

	for _, tc := range cases {
		if got := LanguageHint(tc.path); got != tc.want {
			t.Errorf("LanguageHint(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
