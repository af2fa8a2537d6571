// Package state holds the process-wide watcher state: the last-known
// content hash per tracked file and the per-path completion session.
// A single Registry is created at startup and passed explicitly to the
// pipeline stages that need it.
package state

import (
	"context"
	"sync"
)

// Registry tracks per-path state for the completion pipeline.
type Registry struct {
	mu       sync.Mutex
	nextGen  uint64
	contents map[string]string   // path -> hash of last-known content
	sessions map[string]*session // path -> in-flight completion session
}

// session is the single-flight token for one path. At most one session
// exists per path; a newer edit supersedes it rather than running beside it.
type session struct {
	gen    uint64
	cancel context.CancelFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		contents: make(map[string]string),
		sessions: make(map[string]*session),
	}
}

// ContentChanged records the hash of content for path and reports whether
// it differs from the last recorded content. The first sighting of a path
// counts as changed.
func (r *Registry) ContentChanged(path, content string) bool {
	h := HashContent(content)

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, seen := r.contents[path]
	r.contents[path] = h
	return !seen || prev != h
}

// RecordContent stores the hash of content for path without a change check.
// Used after the engine's own writes so the re-triggered event is absorbed.
func (r *Registry) RecordContent(path, content string) {
	h := HashContent(content)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.contents[path] = h
}

// Forget drops all state for a path (file removed).
func (r *Registry) Forget(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[path]; ok {
		s.cancel()
		delete(r.sessions, path)
	}
	delete(r.contents, path)
}

// Begin starts a session for path, superseding any session already in
// flight: the old session's context is canceled and its generation becomes
// stale. Returns the new session's generation token.
func (r *Registry) Begin(path string, cancel context.CancelFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[path]; ok {
		old.cancel()
	}

	r.nextGen++
	r.sessions[path] = &session{gen: r.nextGen, cancel: cancel}
	return r.nextGen
}

// StillCurrent reports whether gen is the live session generation for path.
// A superseded session sees false here and must discard its result.
func (r *Registry) StillCurrent(path string, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[path]
	return ok && s.gen == gen
}

// End tears down the session for path if gen is still its generation.
// Ending a superseded session is a no-op; the newer session stays live.
func (r *Registry) End(path string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[path]; ok && s.gen == gen {
		s.cancel()
		delete(r.sessions, path)
	}
}

// ActiveSessions returns the number of in-flight sessions.
func (r *Registry) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Cleanup cancels every in-flight session. Called at shutdown.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, s := range r.sessions {
		s.cancel()
		delete(r.sessions, path)
	}
}
