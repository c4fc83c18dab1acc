// Package kalshi fetches open markets from the Kalshi trade API. Only the
// public market-discovery endpoints are used; no authentication is needed.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

const pageLimit = 200

// Client is the REST client for the Kalshi trade API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxPages   int
	keywords   []string
	logger     *slog.Logger
}

// New creates a Kalshi client.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func New(baseURL string, maxPages int, keywords []string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxPages: maxPages,
		keywords: keywords,
		logger:   logger.With(slog.String("component", "kalshi")),
	}
}

func (c *Client) Venue() domain.Venue { return domain.VenueKalshi }

// FetchMarkets follows the listing cursor through open markets, skipping
// expired entries and those outside the configured categories.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market
	now := time.Now()
	cursor := ""

	for page := 0; page < c.maxPages; page++ {
		params := url.Values{}
		params.Set("limit", fmt.Sprint(pageLimit))
		params.Set("status", "open")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		body, err := c.doGet(ctx, "/markets?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("kalshi: get markets page %d: %w", page+1, err)
		}

		var resp marketsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("kalshi: decode markets: %w", err)
		}

		for i := range resp.Markets {
			mkt := resp.Markets[i].ToMarket()
			if mkt.CloseDate != nil && mkt.CloseDate.Before(now) {
				continue
			}
			text := strings.ToLower(mkt.Title + " " + mkt.Subtitle)
			if !matchesKeywords(text, c.keywords) {
				continue
			}
			all = append(all, mkt)
		}

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	c.logger.Info("fetch complete", slog.Int("markets", len(all)))
	return all, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func matchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
