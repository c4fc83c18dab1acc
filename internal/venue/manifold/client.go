// Package manifold fetches open binary markets from the Manifold Markets
// API. Manifold quotes a single YES probability; the NO price is derived as
// its complement.
package manifold

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

const searchLimit = 500

// Client is the REST client for the Manifold API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Manifold client.
//
// baseURL is the API root, e.g. "https://api.manifold.markets".
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With(slog.String("component", "manifold")),
	}
}

func (c *Client) Venue() domain.Venue { return domain.VenueManifold }

// FetchMarkets returns the most liquid open binary markets in a single
// request; the search endpoint is not paginated here.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	path := fmt.Sprintf("/v0/search-markets?filter=open&contractType=BINARY&limit=%d&sort=liquidity", searchLimit)

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("manifold: search markets: %w", err)
	}

	var apiMarkets []APIMarket
	if err := json.Unmarshal(body, &apiMarkets); err != nil {
		return nil, fmt.Errorf("manifold: decode markets: %w", err)
	}

	all := make([]domain.Market, 0, len(apiMarkets))
	nowMs := time.Now().UnixMilli()
	for i := range apiMarkets {
		am := &apiMarkets[i]
		if am.IsResolved {
			continue
		}
		if am.CloseTime != 0 && am.CloseTime < nowMs {
			continue
		}
		all = append(all, am.ToMarket())
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
