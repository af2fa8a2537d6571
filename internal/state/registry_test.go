package state

import (
	"context"
	"testing"
)

func TestContentChanged(t *testing.T) {
	r := New()

	if !r.ContentChanged("/a.go", "first") {
		t.Error("first sighting should count as changed")
	}
	if r.ContentChanged("/a.go", "first") {
		t.Error("identical content should not count as changed")
	}
	if !r.ContentChanged("/a.go", "second") {
		t.Error("new content should count as changed")
	}

	// Paths are independent
	if !r.ContentChanged("/b.go", "first") {
		t.Error("other path should start fresh")
	}
}

func TestRecordContent(t *testing.T) {
	r := New()

	r.RecordContent("/a.go", "written by engine")
	if r.ContentChanged("/a.go", "written by engine") {
		t.Error("recorded content should absorb the echoed event")
	}
}

func TestSessionSingleFlight(t *testing.T) {
	r := New()

	gen1 := r.Begin("/a.go", func() {})
	if !r.StillCurrent("/a.go", gen1) {
		t.Fatal("fresh session should be current")
	}

	gen2 := r.Begin("/a.go", func() {})

	if r.StillCurrent("/a.go", gen1) {
		t.Error("superseded session should not be current")
	}
	if !r.StillCurrent("/a.go", gen2) {
		t.Error("newest session should be current")
	}
	if r.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions = %d, want 1", r.ActiveSessions())
	}
}

func TestSupersedeCancelsOldSession(t *testing.T) {
	r := New()

	ctx, cancel := context.WithCancel(context.Background())
	r.Begin("/a.go", cancel)
	r.Begin("/a.go", func() {})

	select {
	case <-ctx.Done():
	default:
		t.Error("superseding should cancel the old session's context")
	}
}

func TestEnd(t *testing.T) {
	r := New()

	gen1 := r.Begin("/a.go", func() {})
	gen2 := r.Begin("/a.go", func() {})

	// Ending a stale generation must not tear down the live session.
	r.End("/a.go", gen1)
	if !r.StillCurrent("/a.go", gen2) {
		t.Error("live session torn down by stale End")
	}

	r.End("/a.go", gen2)
	if r.StillCurrent("/a.go", gen2) {
		t.Error("session should be gone after End")
	}
	if r.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", r.ActiveSessions())
	}
}

func TestCleanup(t *testing.T) {
	r := New()

	ctx, cancel := context.WithCancel(context.Background())
	r.Begin("/a.go", cancel)
	r.Begin("/b.go", func() {})

	r.Cleanup()

	if r.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", r.ActiveSessions())
	}
	select {
	case <-ctx.Done():
	default:
		t.Error("Cleanup should cancel in-flight sessions")
	}
}

func TestHashContent(t *testing.T) {
	a := HashContent("hello")
	b := HashContent("hello")
	c := HashContent("world")

	if a != b {
		t.Error("same content should hash identically")
	}
	if a == c {
		t.Error("different content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
