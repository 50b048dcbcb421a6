package watch

import (
	"context"
	"time"
)

// Poller re-fetches a document location on a fixed interval and reconciles
// each changed version into its store.
type Poller struct {
	session
}

// NewPoller returns a poller for the given URL or file path.
func NewPoller(location string, opts ...Option) *Poller {
	return &Poller{session: newSession(location, opts...)}
}

// Run polls until ctx is canceled, syncing once immediately and then on
// every interval tick. Sync errors are reported through the error handler
// and do not stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	// First sync happens immediately so callers see state before the
	// first tick.
	_ = p.sync(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = p.sync(ctx)
		}
	}
}

// Sync performs a single fetch-and-reconcile step outside the Run loop.
func (p *Poller) Sync(ctx context.Context) error {
	return p.sync(ctx)
}
