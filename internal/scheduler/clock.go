package scheduler

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and the inter-cycle sleep so tests can
// simulate time without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d or until the context is cancelled (process shutdown).
func (SystemClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
