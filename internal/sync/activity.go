package sync

import (
	"context"
	"time"

	"github.com/clarkhq/clark-server/internal/cache"
	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/match"
)

// ActivityPoller recomputes the advisory activity counter (conversation
// length) for every current match. The counts drive unread badges only;
// nothing else depends on them.
type ActivityPoller struct {
	store   *chat.Store
	cache   *cache.RedisCache // optional write-through for the HTTP surface
	matches func() []match.Match
	publish func(map[string]int)
}

// NewActivityPoller builds an activity poller. matches supplies the current
// match list each cycle; cache may be nil.
func NewActivityPoller(store *chat.Store, c *cache.RedisCache, matches func() []match.Match, publish func(map[string]int)) *ActivityPoller {
	return &ActivityPoller{store: store, cache: c, matches: matches, publish: publish}
}

// Start begins polling at the given interval until ctx is cancelled.
func (a *ActivityPoller) Start(ctx context.Context, interval time.Duration) <-chan struct{} {
	return NewPoller(interval, a.Tick).Start(ctx)
}

// Tick computes counts for the current match list and publishes them.
func (a *ActivityPoller) Tick(ctx context.Context) {
	counts := make(map[string]int)
	for _, m := range a.matches() {
		n, err := a.store.Count(ctx, m.ID)
		if err != nil {
			logger.Warn("activity poll failed", "pair_key", m.ID, "err", err)
			continue
		}
		counts[m.ID] = n
		if a.cache != nil {
			if err := a.cache.UpdateActivityCount(ctx, m.ID, int64(n)); err != nil {
				logger.Warn("activity cache update failed", "pair_key", m.ID, "err", err)
			}
		}
	}
	if a.publish != nil {
		a.publish(counts)
	}
}
