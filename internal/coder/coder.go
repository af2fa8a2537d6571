// Package coder runs the marker-to-completion pipeline: scan a saved file
// for the marker token, extract context, ask the model for the missing
// code, and patch the marker span in place.
package coder

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/youruser/anycoder/internal/config"
	"github.com/youruser/anycoder/internal/diff"
	"github.com/youruser/anycoder/internal/llm"
	"github.com/youruser/anycoder/internal/logging"
	"github.com/youruser/anycoder/internal/state"
	"github.com/youruser/anycoder/internal/watch"
)

var log = logging.Get()

// bigWindowLines is the upper bound for the orientation window; it is
// shrunk further to fit the configured token budget.
const bigWindowLines = 1000

// CompletionClient is the boundary to the external LLM collaborator.
// Retries and backoff, if any, live behind it.
type CompletionClient interface {
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}

// Coder orchestrates completions with per-path single-flight control.
// Overlapping edits to the same path supersede the in-flight session: the
// most recent save reflects the user's current intent, so the older
// session's result is discarded even if its request completes.
type Coder struct {
	client           CompletionClient
	registry         *state.Registry
	guard            *watch.Guard
	model            string
	marker           string
	contextLines     int
	maxContextTokens int
}

// New wires the orchestrator. registry and guard are shared with the
// watcher layer and owned by the caller.
func New(client CompletionClient, cfg *config.Config, registry *state.Registry, guard *watch.Guard) *Coder {
	return &Coder{
		client:           client,
		registry:         registry,
		guard:            guard,
		model:            cfg.Model,
		marker:           cfg.Marker,
		contextLines:     cfg.ContextLines,
		maxContextTokens: cfg.MaxContextTokens,
	}
}

// ProcessChange handles one debounced change notification. The fast path
// (read, change check, marker scan) runs synchronously; when a marker is
// found, the completion continues on its own goroutine so other paths are
// never blocked behind this one's network round-trip.
func (c *Coder) ProcessChange(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("%s removed, dropping state", path)
			c.registry.Forget(path)
			return
		}
		log.Error("reading %s: %v", path, err)
		return
	}
	content := string(data)

	if !c.registry.ContentChanged(path, content) {
		log.Debug("%s content unchanged, skipping", path)
		return
	}

	loc, found := FindMarker(content, c.marker)
	if !found {
		log.Debug("no %s marker in %s", c.marker, path)
		return
	}

	log.Info("marker found in %s at line %d: %s", path, loc.Line+1, loc.LineText)

	sessionCtx, cancel := context.WithCancel(ctx)
	gen := c.registry.Begin(path, cancel)

	go c.complete(sessionCtx, path, content, loc, gen)
}

// complete runs one completion session to its end state. Every failure is
// local to this path: log, leave the marker in the file, tear the session
// down so the next save can try again.
func (c *Coder) complete(ctx context.Context, path, content string, loc Location, gen uint64) {
	defer c.registry.End(path, gen)

	small := BuildWindow(content, loc, c.contextLines, c.marker)
	big := BuildBoundedWindow(content, loc, bigWindowLines, c.contextLines, c.maxContextTokens, c.marker)

	messages := buildMessages(big, small, LanguageHint(path))

	response, err := c.client.Complete(ctx, c.model, messages)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debug("session for %s superseded during request", path)
			return
		}
		log.Error("completion request for %s failed: %v", path, err)
		return
	}

	if !c.registry.StillCurrent(path, gen) {
		log.Debug("discarding superseded result for %s", path)
		return
	}

	plan, err := c.buildPlan(path, content, loc, response)
	if err != nil {
		log.Error("completion for %s rejected: %v", path, err)
		return
	}

	updated, err := plan.Result()
	if err != nil {
		log.Error("completion for %s rejected: %v", path, err)
		return
	}

	// Tag the write before it happens so the watcher classifies the
	// resulting event as our own.
	c.guard.Mark(path, state.HashContent(updated))

	written, err := plan.Apply()
	if err != nil {
		c.guard.Unmark(path)
		if errors.Is(err, diff.ErrStale) {
			log.Info("%s changed during completion, discarding patch", path)
			return
		}
		log.Error("applying patch to %s: %v", path, err)
		return
	}

	c.registry.RecordContent(path, written)

	for _, e := range plan.Edits {
		log.Debug("edit %s [%d, %d) -> %q", path, e.Start, e.End, e.Text)
	}
	log.Info("completed %s (%+d bytes)", path, len(written)-len(content))
}

// buildPlan turns the model response into a verified patch plan. The
// search text must actually match the file around the marker; anything
// else means the model hallucinated context and the patch is refused.
func (c *Coder) buildPlan(path, content string, loc Location, response string) (*diff.Plan, error) {
	patch, err := ParsePatch(response, loc.Offset)
	if err != nil {
		return nil, err
	}

	// Base is the file with this marker occurrence removed; the patch's
	// search/replace pair is expressed against it.
	base := content[:loc.Offset] + content[loc.Offset+len(c.marker):]

	end := patch.Start + len(patch.Search)
	if end > len(base) || !strings.HasPrefix(base[patch.Start:], patch.Search) {
		return nil, ErrSearchMismatch
	}

	edits := diff.ComputeEdits(patch.Search, patch.Replace)
	edits = diff.OffsetEdits(edits, patch.Start)

	return &diff.Plan{
		Path:     path,
		Snapshot: content,
		Base:     base,
		Edits:    edits,
	}, nil
}
