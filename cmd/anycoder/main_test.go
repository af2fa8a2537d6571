package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	v := versionString()
	if v == "" {
		t.Fatal("versionString returned empty string")
	}
	if !strings.HasPrefix(v, strings.TrimSpace(version)) {
		t.Errorf("versionString %q should start with embedded version %q", v, strings.TrimSpace(version))
	}
}

func TestWatchRoot(t *testing.T) {
	t.Run("defaults to cwd", func(t *testing.T) {
		root, err := watchRoot(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !filepath.IsAbs(root) {
			t.Errorf("root %q is not absolute", root)
		}
	})

	t.Run("explicit dir", func(t *testing.T) {
		dir := t.TempDir()
		root, err := watchRoot([]string{dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if root != dir {
			t.Errorf("root = %q, want %q", root, dir)
		}
	})
}
