// Package pipeline orchestrates one sync run: enrich every crawled
// fund with current and historical prices, compute returns, and hand
// the batch to the uploader. Entries are processed strictly one at a
// time; a failure inside one entry skips that entry only.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v5"

	"github.com/fundsync/backend/internal/marketdata"
	"github.com/fundsync/backend/internal/models"
	"github.com/fundsync/backend/internal/returns"
)

// ImageResolver turns a logo record id into a public URL.
type ImageResolver interface {
	ResolveImage(ctx context.Context, imageID string) (string, error)
}

type Options struct {
	// AdjustCurrency marks funds needing base-currency adjustment.
	AdjustCurrency string
	// FXSymbol is the exchange-rate symbol backing the adjustment,
	// e.g. "GBPUSD=X" for a GBP-based view of USD funds.
	FXSymbol string
	// NeedsAdjustment overrides the default currency check when a
	// deployment needs something richer than a single comparison.
	NeedsAdjustment func(currency string) bool
	// Now anchors enrichment timestamps; defaults to time.Now.
	Now func() time.Time
}

type Enricher struct {
	market   marketdata.Provider
	nearest  *marketdata.NearestQuoteFinder
	images   ImageResolver
	throttle Throttler
	opts     Options
}

func NewEnricher(market marketdata.Provider, images ImageResolver, throttle Throttler, opts Options) *Enricher {
	if opts.NeedsAdjustment == nil {
		adjust := opts.AdjustCurrency
		opts.NeedsAdjustment = func(currency string) bool { return currency == adjust }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if throttle == nil {
		throttle = NoThrottle{}
	}
	return &Enricher{
		market:   market,
		nearest:  marketdata.NewNearestQuoteFinder(market),
		images:   images,
		throttle: throttle,
		opts:     opts,
	}
}

// Enrich processes every fund against the two return horizons anchored
// at base (one month back, one year back). The exchange-rate return per
// horizon is fetched once up front; a failure there is fatal for the
// run, since every adjusted metric depends on it. Per-fund failures are
// logged and skipped.
func (e *Enricher) Enrich(ctx context.Context, funds []models.FundRecord, base time.Time) ([]models.FundStats, error) {
	date1M := base.AddDate(0, -1, 0)
	date1Y := base.AddDate(-1, 0, 0)

	fx1M, err := e.fxReturn(ctx, date1M)
	if err != nil {
		return nil, fmt.Errorf("fx return (1M): %w", err)
	}
	fx1Y, err := e.fxReturn(ctx, date1Y)
	if err != nil {
		return nil, fmt.Errorf("fx return (1Y): %w", err)
	}

	results := make([]models.FundStats, 0, len(funds))
	for _, fund := range funds {
		stats, err := e.enrichOne(ctx, fund, date1M, date1Y, fx1M, fx1Y)
		if err != nil {
			fmt.Printf("[SYNC] Skipping %s: %v\n", fund.YahooFinanceTicker, err)
		} else {
			results = append(results, *stats)
		}

		if err := e.throttle.Pause(ctx); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// fxReturn computes the exchange rate's return from the nearest trading
// day at target to now. An empty window yields an absent return, which
// propagates to absent adjusted metrics; only a provider fault is an
// error here.
func (e *Enricher) fxReturn(ctx context.Context, target time.Time) (null.Float, error) {
	current, err := e.market.Quote(ctx, e.opts.FXSymbol)
	if err != nil {
		return null.Float{}, err
	}

	past, err := e.nearest.FindClosest(ctx, e.opts.FXSymbol, target)
	if err != nil {
		return null.Float{}, err
	}
	if past == nil {
		return null.Float{}, nil
	}
	return returns.PercentChange(current, null.FloatFrom(past.Close)), nil
}

func (e *Enricher) enrichOne(ctx context.Context, fund models.FundRecord, date1M, date1Y time.Time, fx1M, fx1Y null.Float) (*models.FundStats, error) {
	ticker := fund.YahooFinanceTicker
	fmt.Printf("[SYNC] Querying %s\n", ticker)

	price, err := e.market.Quote(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}

	oneMonth := returns.PercentChange(price, e.closestClose(ctx, ticker, date1M))
	oneYear := returns.PercentChange(price, e.closestClose(ctx, ticker, date1Y))

	var adj1M, adj1Y null.Float
	if e.opts.NeedsAdjustment(fund.Currency) {
		adj1M = returns.CurrencyAdjusted(oneMonth, fx1M)
		adj1Y = returns.CurrencyAdjusted(oneYear, fx1Y)
	}

	var image null.String
	if fund.FundImage != "" {
		if url, err := e.images.ResolveImage(ctx, fund.FundImage); err != nil {
			fmt.Printf("[SYNC] %s: logo unresolved: %v\n", ticker, err)
		} else {
			image = null.StringFrom(url)
		}
	}

	return &models.FundStats{
		FundName:             fund.FundName,
		FundImage:            image,
		AssetClass:           fund.AssetClass,
		Currency:             fund.Currency,
		YahooFinanceTicker:   ticker,
		Ticker:               fund.Ticker,
		Fee:                  fund.Fee,
		GeoFocus:             fund.GeoFocus,
		AccumulationOrIncome: fund.AccumulationOrIncome,
		DividendPurification: fund.DividendPurification,
		ActiveOrPassive:      fund.ActiveOrPassive,
		InvestmentType:       fund.InvestmentType,
		CurrencyDenomination: fund.CurrencyDenomination,
		BrokerAvailability:   fund.BrokerAvailability,
		Price:                price,
		OneMonth:             oneMonth,
		OneYear:              oneYear,
		OneMonthAdjusted:     adj1M,
		OneYearAdjusted:      adj1Y,
		ShowInProd:           fund.ShowInProd,
		UpdatedAt:            e.opts.Now().UTC().Format(time.RFC3339),
	}, nil
}

// closestClose treats every historical-lookup fault as "no comparable
// price": one fund's missing history must never abort the batch.
func (e *Enricher) closestClose(ctx context.Context, symbol string, target time.Time) null.Float {
	q, err := e.nearest.FindClosest(ctx, symbol, target)
	if err != nil {
		fmt.Printf("[MARKET] %s: historical lookup failed: %v\n", symbol, err)
		return null.Float{}
	}
	if q == nil {
		return null.Float{}
	}
	return null.FloatFrom(q.Close)
}
