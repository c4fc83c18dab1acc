package kalshi

import (
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// APIMarket represents a market as returned by the Kalshi trade API.
// Prices are quoted in cents.
type APIMarket struct {
	Ticker         string   `json:"ticker"`
	EventTicker    string   `json:"event_ticker"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	YesBid         *float64 `json:"yes_bid"`
	YesAsk         *float64 `json:"yes_ask"`
	NoBid          *float64 `json:"no_bid"`
	NoAsk          *float64 `json:"no_ask"`
	Volume         float64  `json:"volume"`
	Status         string   `json:"status"`
	CloseTime      string   `json:"close_time"`
	ExpirationTime string   `json:"expiration_time"`
}

// marketsResponse is the paged envelope around a markets listing.
type marketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// ToMarket converts the API record to a domain market. Ask prices are
// preferred over bids; cents become dollars.
func (m *APIMarket) ToMarket() domain.Market {
	yes := centsToPrice(m.YesAsk, m.YesBid)
	no := centsToPrice(m.NoAsk, m.NoBid)

	slug := m.EventTicker
	if slug == "" {
		slug = m.Ticker
	}

	out := domain.Market{
		ID:            m.Ticker,
		Title:         m.Title,
		Subtitle:      m.Subtitle,
		OutcomePrices: []float64{yes, no},
		Venue:         domain.VenueKalshi,
		Liquidity:     m.Volume,
		CloseDate:     parseCloseDate(m.CloseTime, m.ExpirationTime),
		URL:           "https://kalshi.com/markets/" + slug,
	}
	out.Normalize()
	return out
}

func centsToPrice(ask, bid *float64) float64 {
	switch {
	case ask != nil:
		return *ask / 100
	case bid != nil:
		return *bid / 100
	default:
		return 0
	}
}

func parseCloseDate(candidates ...string) *time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, c); err == nil {
			return &t
		}
	}
	return nil
}
