// Package catalog talks to the fund record API: a paginated listing of
// catalog entries plus a logo-record lookup for image references.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fundsync/backend/internal/httputil"
	"github.com/fundsync/backend/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

type recordPage struct {
	Items      []models.FundRecord `json:"items"`
	TotalPages int                 `json:"totalPages"`
}

// CrawlAll pages through the fund collection until the page count the
// API itself reports is exhausted, accumulating entries in page order.
// Any non-success page status aborts the whole crawl: the page
// accounting may be wrong, so a partial result is not usable.
func (c *Client) CrawlAll(ctx context.Context) ([]models.FundRecord, error) {
	fmt.Printf("[CRAWL] Starting pagination crawl at %s\n", c.baseURL)

	var all []models.FundRecord
	page := 1
	totalPages := 1

	for page <= totalPages {
		fmt.Printf("[CRAWL] Fetching page %d...\n", page)

		reqURL := fmt.Sprintf("%s/collections/fund/records?page=%d", c.baseURL, page)
		resp, err := httputil.Get(ctx, c.httpClient, c.retry, reqURL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch page %d: status %d", page, resp.StatusCode)
		}

		var pg recordPage
		err = json.NewDecoder(resp.Body).Decode(&pg)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode page %d: %w", page, err)
		}

		all = append(all, pg.Items...)
		if pg.TotalPages > 0 {
			totalPages = pg.TotalPages
		}
		page++
	}

	fmt.Printf("[CRAWL] Crawl complete: %d records across %d page(s)\n", len(all), totalPages)
	return all, nil
}

// FilterTradable drops records without a market ticker. With dedup
// enabled, repeated tickers collapse to their first occurrence; some
// deployments intentionally keep one row per catalog record instead,
// so this stays a flag rather than a hard rule.
func FilterTradable(records []models.FundRecord, dedup bool) []models.FundRecord {
	out := make([]models.FundRecord, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		if r.YahooFinanceTicker == "" {
			continue
		}
		if dedup {
			if seen[r.YahooFinanceTicker] {
				continue
			}
			seen[r.YahooFinanceTicker] = true
		}
		out = append(out, r)
	}
	return out
}

type logoPage struct {
	Items []struct {
		ID           string `json:"id"`
		CollectionID string `json:"collectionId"`
		Image        string `json:"image"`
	} `json:"items"`
}

// ResolveImage looks up a logo record by id and builds the public file
// URL for it.
func (c *Client) ResolveImage(ctx context.Context, imageID string) (string, error) {
	filter := url.QueryEscape(fmt.Sprintf("(id=%q)", imageID))
	reqURL := fmt.Sprintf("%s/collections/logos/records?filter=%s", c.baseURL, filter)

	resp, err := httputil.Get(ctx, c.httpClient, c.retry, reqURL)
	if err != nil {
		return "", fmt.Errorf("logo lookup %s: %w", imageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("logo lookup %s: status %d", imageID, resp.StatusCode)
	}

	var pg logoPage
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return "", fmt.Errorf("decode logo %s: %w", imageID, err)
	}
	if len(pg.Items) == 0 {
		return "", fmt.Errorf("logo %s not found", imageID)
	}

	item := pg.Items[0]
	return fmt.Sprintf("%s/files/%s/%s/%s", c.baseURL, item.CollectionID, item.ID, item.Image), nil
}
