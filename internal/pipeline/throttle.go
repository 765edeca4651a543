package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttler paces provider calls between catalog entries.
type Throttler interface {
	Pause(ctx context.Context) error
}

// IntervalThrottle enforces a minimum interval between entries. The
// market-data provider has no published rate limit, but bursts get
// throttled, so each entry waits its turn regardless of outcome.
type IntervalThrottle struct {
	limiter *rate.Limiter
}

func NewIntervalThrottle(minInterval time.Duration) *IntervalThrottle {
	return &IntervalThrottle{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

func (t *IntervalThrottle) Pause(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// NoThrottle pauses nothing; used in tests.
type NoThrottle struct{}

func (NoThrottle) Pause(context.Context) error { return nil }
