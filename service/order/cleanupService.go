package order

import (
	"context"
	"time"
)

// Cleaner cancels PENDING orders nobody confirmed within the hold
// window and returns their stock.
type Cleaner interface {
	ReleaseStale(ctx context.Context) (int64, error)
}

type StaleRepo interface {
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type cleaner struct {
	r    StaleRepo
	hold time.Duration
}

func NewCleaner(r StaleRepo, hold time.Duration) Cleaner {
	if hold <= 0 {
		hold = 72 * time.Hour
	}
	return &cleaner{r: r, hold: hold}
}

func (c *cleaner) ReleaseStale(ctx context.Context) (int64, error) {
	return c.r.CancelStalePending(ctx, time.Now().UTC().Add(-c.hold))
}
