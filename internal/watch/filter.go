package watch

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Filter decides whether a filesystem path is tracked at all. Directory
// names are matched per path segment, never by substring, so a file named
// "rebuild.go" is not mistaken for a "build" directory.
type Filter struct {
	root        string
	ignoreDirs  map[string]struct{}
	ignoreFiles map[string]struct{}
	gitignore   *ignore.GitIgnore
}

// NewFilter builds a filter rooted at root. When useGitignore is set and
// the root has a .gitignore, its rules apply on top of the built-in lists.
func NewFilter(root string, ignoreDirs, ignoreFiles []string, useGitignore bool) *Filter {
	f := &Filter{
		root:        root,
		ignoreDirs:  make(map[string]struct{}, len(ignoreDirs)),
		ignoreFiles: make(map[string]struct{}, len(ignoreFiles)),
	}
	for _, d := range ignoreDirs {
		f.ignoreDirs[d] = struct{}{}
	}
	for _, name := range ignoreFiles {
		f.ignoreFiles[name] = struct{}{}
	}

	if useGitignore {
		gitignorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			if gi, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
				f.gitignore = gi
			}
		}
	}

	return f
}

// ShouldTrack reports whether path belongs in the pipeline. Malformed
// paths are not tracked.
func (f *Filter) ShouldTrack(path string) bool {
	if path == "" {
		return false
	}

	base := filepath.Base(path)

	// The engine's own atomic-write temp files
	if strings.HasPrefix(base, ".anycoder-") && strings.HasSuffix(base, ".tmp") {
		return false
	}

	if _, ok := f.ignoreFiles[base]; ok {
		return false
	}

	rel, err := filepath.Rel(f.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if _, ok := f.ignoreDirs[seg]; ok {
			return false
		}
	}

	if f.gitignore != nil && f.gitignore.MatchesPath(rel) {
		return false
	}

	return true
}
