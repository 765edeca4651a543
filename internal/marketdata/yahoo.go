package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fundsync/backend/internal/httputil"
)

const defaultYahooURL = "https://query1.finance.yahoo.com"

// YahooClient fetches prices from the Yahoo Finance chart API. Both the
// current quote and the historical series come from the same v8 chart
// endpoint; the quote is read from the chart metadata.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		baseURL:    defaultYahooURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// NewYahooClientWithBaseURL points the client at an alternate host,
// used by tests to target an httptest server.
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	c := NewYahooClient()
	c.baseURL = baseURL
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *YahooClient) Quote(ctx context.Context, symbol string) (float64, error) {
	chart, err := c.fetchChart(ctx, symbol, url.Values{
		"range":    {"1d"},
		"interval": {"1d"},
	})
	if err != nil {
		return 0, err
	}

	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("no market price for %s", symbol)
	}
	return price, nil
}

func (c *YahooClient) Historical(ctx context.Context, symbol string, from, to time.Time) ([]QuotePoint, error) {
	chart, err := c.fetchChart(ctx, symbol, url.Values{
		"period1":  {fmt.Sprintf("%d", from.Unix())},
		"period2":  {fmt.Sprintf("%d", to.Unix())},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := result.Indicators.Quote[0].Close
	quotes := make([]QuotePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// the provider pads missing trading days with null closes
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		quotes = append(quotes, QuotePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return quotes, nil
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol string, params url.Values) (*chartResponse, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	resp, err := httputil.Get(ctx, c.httpClient, c.retry, reqURL)
	if err != nil {
		return nil, fmt.Errorf("chart fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart %s returned status %d", symbol, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode chart %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s (%s)", symbol, chart.Chart.Error.Description, chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}
	return &chart, nil
}
