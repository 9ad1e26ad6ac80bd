package sync

import (
	"context"
	"slices"
	stdsync "sync"
	"time"

	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/logger"
)

// ConversationPoller keeps one open chat view eventually consistent with
// the shared conversation document. It owns a local cache of the message
// list and reconciles the store into it every interval.
type ConversationPoller struct {
	store    *chat.Store
	pairKey  string
	onChange func([]chat.Message)

	mu    stdsync.Mutex
	local []chat.Message
}

// NewConversationPoller builds a poller for one conversation. onChange is
// invoked with the reconciled list whenever the local cache is replaced.
func NewConversationPoller(store *chat.Store, pairKey string, onChange func([]chat.Message)) *ConversationPoller {
	return &ConversationPoller{store: store, pairKey: pairKey, onChange: onChange}
}

// Start begins polling at the given interval until ctx is cancelled.
func (c *ConversationPoller) Start(ctx context.Context, interval time.Duration) <-chan struct{} {
	return NewPoller(interval, c.Tick).Start(ctx)
}

// Tick performs one poll cycle: read, reconcile, publish. Exported so the
// owning view can force a cycle (e.g. right after sending).
func (c *ConversationPoller) Tick(ctx context.Context) {
	fresh, err := c.store.Read(ctx, c.pairKey)
	if err != nil {
		// degraded freshness, not a failure: keep the current view and
		// retry on the next cycle
		logger.Warn("conversation poll failed", "pair_key", c.pairKey, "err", err)
		return
	}

	// Replace the local list only when its length differs. This keeps
	// optimistic local state intact when nothing changed, at the cost of
	// missing same-length edits; messages are append-only, so edits do
	// not occur.
	c.mu.Lock()
	changed := len(c.local) != len(fresh)
	if changed {
		c.local = fresh
	}
	snapshot := slices.Clone(c.local)
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(snapshot)
	}
}

// Seed installs an optimistic local list (e.g. the result of the viewer's
// own append) without waiting for the next cycle.
func (c *ConversationPoller) Seed(msgs []chat.Message) {
	c.mu.Lock()
	c.local = slices.Clone(msgs)
	c.mu.Unlock()
}

// Messages returns the current reconciled view.
func (c *ConversationPoller) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.local)
}
