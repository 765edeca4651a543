package marketdata

import (
	"context"
	"time"
)

// QuotePoint is a single trading-day observation.
type QuotePoint struct {
	Date  time.Time
	Close float64
}

// Provider supplies current and historical daily prices for a symbol.
type Provider interface {
	// Quote returns the latest traded price.
	Quote(ctx context.Context, symbol string) (float64, error)
	// Historical returns daily closes in [from, to], in provider order.
	Historical(ctx context.Context, symbol string, from, to time.Time) ([]QuotePoint, error)
}
