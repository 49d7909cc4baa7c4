package quote

import (
	"context"
	"log"
	"time"
)

// RunSweeper expires lapsed quotes every interval until ctx is done.
func RunSweeper(ctx context.Context, svc *Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	log.Printf("[QuoteSweeper] started interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[QuoteSweeper] stopped")
			return
		case <-t.C:
			n, err := svc.ExpireDue(ctx, time.Now())
			if err != nil {
				log.Printf("[QuoteSweeper] sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[QuoteSweeper] expired %d quotes", n)
			}
		}
	}
}
