package ledger

import (
	"context"
	"log"
	"time"
)

// Sweeper reclaims expired holds on a fixed interval.  The ledger
// also reaps lazily whenever a slot is inspected, so the sweeper is a
// backstop that keeps seats from staying invisible-held when nobody
// touches them again.
type Sweeper struct {
	ledger   *Ledger
	interval time.Duration
}

// NewSweeper constructs a Sweeper over the given ledger.  A
// non-positive interval falls back to one minute.
func NewSweeper(l *Ledger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{ledger: l, interval: interval}
}

// Start runs the sweep loop until the context is cancelled.  It is
// meant to be launched in its own goroutine at startup.
func (w *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("expiry sweeper started (interval=%s)", w.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("expiry sweeper stopped")
			return
		case <-ticker.C:
			if reclaimed := w.ledger.SweepExpired(); reclaimed > 0 {
				log.Printf("expiry sweeper reclaimed %d hold(s)", reclaimed)
			}
		}
	}
}
