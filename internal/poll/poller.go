// Package poll re-fetches server state on a fixed interval so a
// shopper deciding on seats sees an eventually-fresh picture of
// availability without a push channel.
package poll

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// DefaultInterval matches the seat-map staleness budget of the booking
// screen.
const DefaultInterval = 30 * time.Second

// Poller runs a fetch function on a ticker for as long as its context
// lives. The ticker is owned by Run and stops with it, so cancelling
// the context is the unmount: no orphaned timers, no fetches after
// cancellation. Ticks are skipped while the poller is unfocused.
type Poller struct {
	interval time.Duration
	fetch    func(ctx context.Context) error
	focused  atomic.Bool
	logger   *log.Logger
}

// New builds a poller. A non-positive interval falls back to
// DefaultInterval. The poller starts focused.
func New(interval time.Duration, fetch func(ctx context.Context) error) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		interval: interval,
		fetch:    fetch,
		logger:   log.New(log.Writer(), "poll: ", log.LstdFlags),
	}
	p.focused.Store(true)
	return p
}

// SetFocused gates polling. While false, ticks elapse without a fetch;
// the screen's visibility handler is expected to flip this.
func (p *Poller) SetFocused(v bool) { p.focused.Store(v) }

// Run blocks until ctx is cancelled, fetching once per interval while
// focused. It does not fetch immediately on start: the caller loads
// the initial state itself, the poller only keeps it fresh. Fetch
// errors are logged and otherwise silent; polling continues.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.focused.Load() {
				continue
			}
			if err := p.fetch(ctx); err != nil {
				p.logger.Printf("refresh failed: %v", err)
			}
		}
	}
}
