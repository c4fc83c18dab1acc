package manifold

import (
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// APIMarket represents a binary market as returned by the Manifold API.
// CloseTime is a Unix timestamp in milliseconds.
type APIMarket struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Probability float64 `json:"probability"`
	URL         string  `json:"url"`
	Volume      float64 `json:"volume"`
	IsResolved  bool    `json:"isResolved"`
	CloseTime   int64   `json:"closeTime"`
}

// ToMarket converts the API record to a domain market with the derived
// [YES, NO] price pair.
func (m *APIMarket) ToMarket() domain.Market {
	var closeDate *time.Time
	if m.CloseTime != 0 {
		t := time.UnixMilli(m.CloseTime).UTC()
		closeDate = &t
	}

	out := domain.Market{
		ID:            m.ID,
		Question:      m.Question,
		OutcomePrices: []float64{m.Probability, 1 - m.Probability},
		Venue:         domain.VenueManifold,
		Liquidity:     m.Volume,
		CloseDate:     closeDate,
		URL:           m.URL,
	}
	out.Normalize()
	return out
}
