package nameparser

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPacing is the pause after each mode attempt during bulk parsing.
const DefaultPacing = 20 * time.Millisecond

// Pacer throttles pattern matching. Wait blocks until the next attempt may
// run or ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a pacer allowing one mode attempt per delay. A
// non-positive delay disables pacing.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return NopPacer{}
	}
	return &ratePacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

type ratePacer struct {
	limiter *rate.Limiter
}

func (p *ratePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer never waits. It still reports a cancelled context.
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
