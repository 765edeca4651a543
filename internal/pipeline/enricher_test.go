package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fundsync/backend/internal/marketdata"
	"github.com/fundsync/backend/internal/models"
)

type fakeMarket struct {
	quotes   map[string]float64
	quoteErr map[string]error
	hist     map[string][]marketdata.QuotePoint
	histErr  map[string]error
}

func (f *fakeMarket) Quote(_ context.Context, symbol string) (float64, error) {
	if err := f.quoteErr[symbol]; err != nil {
		return 0, err
	}
	p, ok := f.quotes[symbol]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return p, nil
}

func (f *fakeMarket) Historical(_ context.Context, symbol string, from, to time.Time) ([]marketdata.QuotePoint, error) {
	if err := f.histErr[symbol]; err != nil {
		return nil, err
	}
	var out []marketdata.QuotePoint
	for _, q := range f.hist[symbol] {
		if !q.Date.Before(from) && !q.Date.After(to) {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeImages struct {
	urls map[string]string
	err  error
}

func (f *fakeImages) ResolveImage(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	url, ok := f.urls[id]
	if !ok {
		return "", fmt.Errorf("logo %s not found", id)
	}
	return url, nil
}

var testOpts = Options{
	AdjustCurrency: "USD",
	FXSymbol:       "GBPUSD=X",
}

func TestEnrich_EndToEnd(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	oneMonthAgo := base.AddDate(0, -1, 0)
	oneYearAgo := base.AddDate(-1, 0, 0)

	market := &fakeMarket{
		quotes: map[string]float64{
			"AAA":      110,
			"BBB.L":    50,
			"GBPUSD=X": 1.26,
		},
		hist: map[string][]marketdata.QuotePoint{
			"AAA": {
				{Date: oneYearAgo, Close: 100},
				{Date: oneMonthAgo, Close: 104},
			},
			"BBB.L": {
				{Date: oneYearAgo, Close: 40},
				{Date: oneMonthAgo, Close: 48},
			},
			"GBPUSD=X": {
				{Date: oneYearAgo, Close: 1.2},
				{Date: oneMonthAgo, Close: 1.26},
			},
		},
	}

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, testOpts)
	funds := []models.FundRecord{
		{YahooFinanceTicker: "AAA", FundName: "Alpha USD Fund", Currency: "USD"},
		{YahooFinanceTicker: "BBB.L", FundName: "Beta GBP Fund", Currency: "GBP"},
	}

	stats, err := e.Enrich(context.Background(), funds, base)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 results, got %d", len(stats))
	}

	aaa := stats[0]
	if aaa.Price != 110 {
		t.Fatalf("AAA price: %f", aaa.Price)
	}
	if !aaa.OneYear.Valid || aaa.OneYear.Float64 != 10 {
		t.Fatalf("AAA one-year local return: %+v", aaa.OneYear)
	}
	// GBP/USD gained 5% over the year, so the GBP view of a 10%
	// USD return compounds to ((1.10/1.05)-1)*100 = 4.76
	if !aaa.OneYearAdjusted.Valid || aaa.OneYearAdjusted.Float64 != 4.76 {
		t.Fatalf("AAA one-year adjusted return: %+v", aaa.OneYearAdjusted)
	}
	if !aaa.OneMonth.Valid || aaa.OneMonth.Float64 != 5.77 {
		t.Fatalf("AAA one-month local return: %+v", aaa.OneMonth)
	}
	// flat fx over the month passes the local return through
	if !aaa.OneMonthAdjusted.Valid || aaa.OneMonthAdjusted.Float64 != 5.77 {
		t.Fatalf("AAA one-month adjusted return: %+v", aaa.OneMonthAdjusted)
	}
	if aaa.UpdatedAt == "" {
		t.Fatal("AAA updatedAt should be set")
	}

	bbb := stats[1]
	if !bbb.OneYear.Valid || bbb.OneYear.Float64 != 25 {
		t.Fatalf("BBB one-year local return: %+v", bbb.OneYear)
	}
	if bbb.OneYearAdjusted.Valid || bbb.OneMonthAdjusted.Valid {
		t.Fatalf("GBP fund must not carry adjusted returns: %+v / %+v",
			bbb.OneYearAdjusted, bbb.OneMonthAdjusted)
	}
}

func TestEnrich_QuoteFailureSkipsEntryOnly(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes: map[string]float64{
			"AAA":      110,
			"CCC":      70,
			"GBPUSD=X": 1.26,
		},
		quoteErr: map[string]error{
			"BAD": errors.New("symbol not found"),
		},
	}

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, testOpts)
	funds := []models.FundRecord{
		{YahooFinanceTicker: "AAA", Currency: "USD"},
		{YahooFinanceTicker: "BAD", Currency: "USD"},
		{YahooFinanceTicker: "CCC", Currency: "GBP"},
	}

	stats, err := e.Enrich(context.Background(), funds, base)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected the 2 healthy entries, got %d", len(stats))
	}
	if stats[0].YahooFinanceTicker != "AAA" || stats[1].YahooFinanceTicker != "CCC" {
		t.Fatalf("wrong survivors: %s, %s", stats[0].YahooFinanceTicker, stats[1].YahooFinanceTicker)
	}
}

func TestEnrich_NoHistoricalMeansNullReturns(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes: map[string]float64{"AAA": 110, "GBPUSD=X": 1.26},
		// no historical data at all
	}

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, testOpts)
	stats, err := e.Enrich(context.Background(),
		[]models.FundRecord{{YahooFinanceTicker: "AAA", Currency: "USD"}}, base)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("entry without history still publishes, got %d results", len(stats))
	}
	s := stats[0]
	if s.OneMonth.Valid || s.OneYear.Valid || s.OneMonthAdjusted.Valid || s.OneYearAdjusted.Valid {
		t.Fatalf("expected all returns absent: %+v", s)
	}
	if s.Price != 110 {
		t.Fatalf("price should still be present: %f", s.Price)
	}
}

func TestEnrich_HistoricalFaultTreatedAsAbsent(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes:  map[string]float64{"AAA": 110, "GBPUSD=X": 1.26},
		histErr: map[string]error{"AAA": errors.New("upstream timeout")},
	}

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, testOpts)
	stats, err := e.Enrich(context.Background(),
		[]models.FundRecord{{YahooFinanceTicker: "AAA", Currency: "GBP"}}, base)
	if err != nil {
		t.Fatalf("a fund's historical fault must not abort the batch: %v", err)
	}
	if len(stats) != 1 || stats[0].OneYear.Valid {
		t.Fatalf("expected one result with absent returns, got %+v", stats)
	}
}

func TestEnrich_ImageResolution(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{quotes: map[string]float64{"AAA": 110, "BBB": 50, "GBPUSD=X": 1.26}}

	images := &fakeImages{urls: map[string]string{
		"img1": "https://records.example.com/files/logos/img1/alpha.png",
	}}

	e := NewEnricher(market, images, NoThrottle{}, testOpts)
	funds := []models.FundRecord{
		{YahooFinanceTicker: "AAA", Currency: "GBP", FundImage: "img1"},
		{YahooFinanceTicker: "BBB", Currency: "GBP", FundImage: "img-missing"},
	}

	stats, err := e.Enrich(context.Background(), funds, base)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if !stats[0].FundImage.Valid || stats[0].FundImage.String != images.urls["img1"] {
		t.Fatalf("resolved image: %+v", stats[0].FundImage)
	}
	// a failed lookup leaves the image absent but keeps the entry
	if stats[1].FundImage.Valid {
		t.Fatalf("unresolved image should be absent, got %+v", stats[1].FundImage)
	}
}

func TestEnrich_FXQuoteFailureIsFatal(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes:   map[string]float64{"AAA": 110},
		quoteErr: map[string]error{"GBPUSD=X": errors.New("fx unavailable")},
	}

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, testOpts)
	if _, err := e.Enrich(context.Background(),
		[]models.FundRecord{{YahooFinanceTicker: "AAA", Currency: "USD"}}, base); err == nil {
		t.Fatal("fx quote failure should abort the run")
	}
}

func TestEnrich_CustomAdjustmentPredicate(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	oneYearAgo := base.AddDate(-1, 0, 0)
	market := &fakeMarket{
		quotes: map[string]float64{"AAA": 110, "GBPUSD=X": 1.26},
		hist: map[string][]marketdata.QuotePoint{
			"AAA":      {{Date: oneYearAgo, Close: 100}},
			"GBPUSD=X": {{Date: oneYearAgo, Close: 1.2}},
		},
	}

	opts := testOpts
	opts.NeedsAdjustment = func(string) bool { return true }

	e := NewEnricher(market, &fakeImages{}, NoThrottle{}, opts)
	stats, err := e.Enrich(context.Background(),
		[]models.FundRecord{{YahooFinanceTicker: "AAA", Currency: "EUR"}}, base)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !stats[0].OneYearAdjusted.Valid {
		t.Fatal("custom predicate should force adjustment")
	}
}
