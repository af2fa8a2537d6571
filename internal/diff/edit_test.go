package diff

import (
	"testing"
)

func TestComputeEdits_SingleInsertion(t *testing.T) {
	before := `println!("Current value: {}", );`
	after := `println!("Current value: {}", i);`

	edits := ComputeEdits(before, after)

	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1: %+v", len(edits), edits)
	}
	if edits[0].Start != 30 || edits[0].End != 30 || edits[0].Text != "i" {
		t.Errorf("edit = %+v, want insertion of %q at 30", edits[0], "i")
	}
}

func TestComputeEdits_RoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		before string
		after  string
	}{
		{"replacement", "let mut foo = 2;\nfoo *= 50;", "let mut foo = 5;\nfoo *= 50;"},
		{"insertion mid-line", "for  in 0..5 {", "for i in 0..5 {"},
		{"multi edit", "let mut foo = 2;\nfoo *= 50;", "let mut foo = 5;\naaaa foo *= 50;"},
		{"deletion", "apple banana cherry", "apple cherry"},
		{"unicode", `println!("Current значение: {}", i);`, `println!("Current value: {}", i);`},
		{"identical", "unchanged", "unchanged"},
		{"empty before", "", "new content"},
		{"empty after", "old content", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edits := ComputeEdits(tc.before, tc.after)
			got, err := ApplyEdits(tc.before, edits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.after {
				t.Errorf("round trip got %q, want %q (edits: %+v)", got, tc.after, edits)
			}
		})
	}
}

func TestComputeEdits_NoChange(t *testing.T) {
	if edits := ComputeEdits("same", "same"); len(edits) != 0 {
		t.Errorf("got %d edits for identical input, want 0", len(edits))
	}
}

func TestOffsetEdits(t *testing.T) {
	edits := []TextEdit{{Start: 3, End: 5, Text: "x"}, {Start: 10, End: 10, Text: "y"}}
	shifted := OffsetEdits(edits, 100)

	if shifted[0].Start != 103 || shifted[0].End != 105 {
		t.Errorf("shifted[0] = %+v", shifted[0])
	}
	if shifted[1].Start != 110 || shifted[1].End != 110 {
		t.Errorf("shifted[1] = %+v", shifted[1])
	}
	// Original untouched
	if edits[0].Start != 3 {
		t.Error("OffsetEdits mutated its input")
	}
}

func TestApplyEdits(t *testing.T) {
	t.Run("applies back to front", func(t *testing.T) {
		original := "The quick brown fox jumps over the lazy dog"
		edits := []TextEdit{
			{Start: 4, End: 9, Text: "slow"},
			{Start: 35, End: 39, Text: "sleepy"},
			{Start: 43, End: 43, Text: " and cat"},
		}

		got, err := ApplyEdits(original, edits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "The slow brown fox jumps over the sleepy dog and cat"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		_, err := ApplyEdits("short", []TextEdit{{Start: 3, End: 99, Text: "x"}})
		if err == nil {
			t.Fatal("expected error for out-of-bounds edit")
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := ApplyEdits("content", []TextEdit{{Start: 5, End: 2, Text: "x"}})
		if err == nil {
			t.Fatal("expected error for inverted range")
		}
	})

	t.Run("no edits", func(t *testing.T) {
		got, err := ApplyEdits("content", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "content" {
			t.Errorf("got %q, want unchanged content", got)
		}
	})
}
