package marketdata

import (
	"context"
	"time"
)

// windowDays pads the search window on each side of the target date so
// that weekends and market holidays still yield a usable trading day.
const windowDays = 5

// NearestQuoteFinder resolves the historical close nearest to a target
// date. Exact-date quotes often do not exist, so it fetches a small
// window around the target and picks the closest trading day.
type NearestQuoteFinder struct {
	provider Provider
}

func NewNearestQuoteFinder(provider Provider) *NearestQuoteFinder {
	return &NearestQuoteFinder{provider: provider}
}

// FindClosest returns the quote minimizing |date - target| within
// [target-5d, target+5d]. A window with no quotes yields (nil, nil);
// that is a valid outcome, not an error. Exact ties go to the earlier
// date so the result does not depend on provider response order.
func (f *NearestQuoteFinder) FindClosest(ctx context.Context, symbol string, target time.Time) (*QuotePoint, error) {
	from := target.AddDate(0, 0, -windowDays)
	to := target.AddDate(0, 0, windowDays)

	quotes, err := f.provider.Historical(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		d, bd := absDistance(q.Date, target), absDistance(best.Date, target)
		if d < bd || (d == bd && q.Date.Before(best.Date)) {
			best = q
		}
	}
	return &best, nil
}

func absDistance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
