// Package polymarket fetches open binary and multi-outcome markets from the
// Polymarket Gamma API.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

const pageLimit = 100

// Client is the REST client for the Polymarket Gamma API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxPages   int
	keywords   []string
	logger     *slog.Logger
}

// New creates a Gamma API client.
//
// baseURL is the API root, e.g. "https://gamma-api.polymarket.com". keywords
// is the lower-cased category filter; empty means no filtering.
func New(baseURL string, maxPages int, keywords []string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxPages: maxPages,
		keywords: keywords,
		logger:   logger.With(slog.String("component", "polymarket")),
	}
}

func (c *Client) Venue() domain.Venue { return domain.VenuePolymarket }

// FetchMarkets pages through open markets and returns those that are still
// tradeable, skipping closed, resolved, and expired entries.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market
	now := time.Now()

	for page := 0; page < c.maxPages; page++ {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("offset", strconv.Itoa(page*pageLimit))
		params.Set("closed", "false")

		body, err := c.doGet(ctx, "/markets?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("polymarket: get markets page %d: %w", page+1, err)
		}

		var apiMarkets []APIMarket
		if err := json.Unmarshal(body, &apiMarkets); err != nil {
			return nil, fmt.Errorf("polymarket: decode markets: %w", err)
		}
		if len(apiMarkets) == 0 {
			break
		}

		for i := range apiMarkets {
			am := &apiMarkets[i]
			if bool(am.Closed) || bool(am.Resolved) {
				continue
			}
			mkt := am.ToMarket()
			if mkt.CloseDate != nil && mkt.CloseDate.Before(now) {
				continue
			}
			if !matchesKeywords(strings.ToLower(mkt.Question), c.keywords) {
				continue
			}
			all = append(all, mkt)
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

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, body)
	}
}

// matchesKeywords reports whether text contains any keyword. An empty
// keyword list matches everything.
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
