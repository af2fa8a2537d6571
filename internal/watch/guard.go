package watch

import (
	"sync"
	"time"
)

// Guard tags the tool's own writes so the watcher does not feed them back
// into the pipeline. An entry is registered just before the patch engine
// writes a file and is cleared after one matching event is observed, or
// after a short TTL so a later user edit with identical content is never
// swallowed for good.
type Guard struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]guardEntry
}

type guardEntry struct {
	hash    string
	expires time.Time
}

// NewGuard creates a guard whose entries expire after ttl.
func NewGuard(ttl time.Duration) *Guard {
	return &Guard{
		ttl:     ttl,
		entries: make(map[string]guardEntry),
	}
}

// Mark registers an imminent self-write to path. hash is the SHA-256 of
// the content about to be written.
func (g *Guard) Mark(path, hash string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[path] = guardEntry{hash: hash, expires: time.Now().Add(g.ttl)}
}

// Unmark removes a pending entry. Called when a planned write is aborted
// (stale file, write error) so the user's next event is not misclassified.
func (g *Guard) Unmark(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, path)
}

// IsSelf reports whether an incoming event for path originates from the
// tool's own write. The entry is consumed by the first matching event.
func (g *Guard) IsSelf(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[path]
	if !ok {
		return false
	}
	if time.Now().After(e.expires) {
		delete(g.entries, path)
		return false
	}

	delete(g.entries, path)
	return true
}

// WrittenHash returns the content hash of the pending entry for path, if
// one exists and has not expired.
func (g *Guard) WrittenHash(path string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[path]
	if !ok || time.Now().After(e.expires) {
		return "", false
	}
	return e.hash, true
}
