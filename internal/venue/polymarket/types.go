package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether a flag is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIEvent is the event summary embedded in a Gamma market record. Only the
// slug is needed, to build the public market URL.
type APIEvent struct {
	Slug string `json:"slug"`
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
// Numeric fields arrive as strings; outcomePrices is a JSON array encoded
// inside a string.
type APIMarket struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Slug          string     `json:"slug"`
	OutcomePrices string     `json:"outcomePrices"`
	Liquidity     string     `json:"liquidity"`
	Closed        flexBool   `json:"closed"`
	Resolved      flexBool   `json:"resolved"`
	EndDateISO    string     `json:"endDateIso"`
	EndDate       string     `json:"endDate"`
	Events        []APIEvent `json:"events"`
}

// ToMarket converts the API record to a domain market. Unparseable prices
// come back empty; the engine skips markets without usable prices.
func (m *APIMarket) ToMarket() domain.Market {
	prices := parseOutcomePrices(m.OutcomePrices)

	liquidity, _ := strconv.ParseFloat(m.Liquidity, 64)

	out := domain.Market{
		ID:            m.ID,
		Question:      m.Question,
		OutcomePrices: prices,
		Venue:         domain.VenuePolymarket,
		Liquidity:     liquidity,
		CloseDate:     parseCloseDate(m.EndDateISO, m.EndDate),
		URL:           m.publicURL(),
	}
	out.Normalize()
	return out
}

// publicURL builds the polymarket.com event page URL from the event and
// market slugs, when present.
func (m *APIMarket) publicURL() string {
	var eventSlug string
	if len(m.Events) > 0 {
		eventSlug = m.Events[0].Slug
	}
	switch {
	case eventSlug != "" && m.Slug != "":
		return "https://polymarket.com/event/" + eventSlug + "/" + m.Slug
	case eventSlug != "":
		return "https://polymarket.com/event/" + eventSlug
	default:
		return ""
	}
}

// parseOutcomePrices decodes Gamma's outcomePrices field, a JSON array
// encoded inside a string. The elements are usually quoted numbers
// (`["0.45", "0.52"]`) but bare numbers appear too, so decode through
// json.Number, which accepts both. Any bad element discards the lot.
func parseOutcomePrices(raw string) []float64 {
	if raw == "" {
		return nil
	}
	var nums []json.Number
	if err := json.Unmarshal([]byte(raw), &nums); err != nil {
		return nil
	}
	prices := make([]float64, 0, len(nums))
	for _, n := range nums {
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		prices = append(prices, f)
	}
	return prices
}

// parseCloseDate returns the first candidate that parses as RFC 3339.
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
