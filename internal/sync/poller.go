// Package sync implements the polling side of the engine: cancellable
// periodic tasks that re-read the shared store and reconcile what they find
// into local view state. Polling is the only cross-party visibility
// mechanism; there is no push channel, so freshness is bounded by the poll
// interval.
package sync

import (
	"context"
	"time"
)

// Poller runs a tick function at a fixed interval until its context is
// cancelled. One tick runs to completion before the next can fire, and the
// first tick fires immediately on start.
type Poller struct {
	interval time.Duration
	tick     func(context.Context)
}

// NewPoller builds a poller; it does nothing until Start.
func NewPoller(interval time.Duration, tick func(context.Context)) *Poller {
	return &Poller{interval: interval, tick: tick}
}

// Start launches the loop. Cancelling ctx stops it deterministically: no
// tick fires after the returned channel closes. The channel lets owners
// join on shutdown.
func (p *Poller) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		p.tick(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
	return done
}
