package session

import (
	"context"
	"time"
)

// RunSweeper runs Sweep on a fixed period until ctx is cancelled. Each tick
// is a single bounded pass; sweeping never blocks request handling beyond
// the store's own lock.
func RunSweeper(ctx context.Context, store Store, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Sweep()
		}
	}
}
