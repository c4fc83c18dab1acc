// Package domain defines the shared value types exchanged between the venue
// fetchers, the detection engine, the cross-venue matcher, and the alert
// channel. All types are plain data; behavior lives in the packages that
// consume them.
package domain

import (
	"math"
	"strings"
	"time"
)

// Venue identifies a prediction-market platform.
type Venue string

const (
	VenuePolymarket Venue = "Polymarket"
	VenueKalshi     Venue = "Kalshi"
	VenueManifold   Venue = "Manifold"
)

// Market is a normalized point-in-time snapshot of one tradable contract.
// OutcomePrices are implied probabilities: index 0 is YES, index 1 is NO,
// further indices are additional outcomes of multi-outcome markets.
type Market struct {
	ID            string     `json:"id"`
	Question      string     `json:"question,omitempty"`
	Title         string     `json:"title,omitempty"`
	Subtitle      string     `json:"subtitle,omitempty"`
	OutcomePrices []float64  `json:"outcome_prices"`
	Venue         Venue      `json:"venue"`
	Liquidity     float64    `json:"liquidity"`
	CloseDate     *time.Time `json:"close_date,omitempty"`
	URL           string     `json:"url,omitempty"`
}

// YesPrice returns the price of the YES outcome, or 0 when absent.
func (m *Market) YesPrice() float64 { return m.priceAt(0) }

// NoPrice returns the price of the NO outcome, or 0 when absent.
func (m *Market) NoPrice() float64 { return m.priceAt(1) }

func (m *Market) priceAt(i int) float64 {
	if i >= len(m.OutcomePrices) {
		return 0
	}
	return m.OutcomePrices[i]
}

// Text returns the full searchable text of the market: question, title, and
// subtitle joined by single spaces. Detectors lower-case it once per scan.
func (m *Market) Text() string {
	return m.Question + " " + m.Title + " " + m.Subtitle
}

// DisplayQuestion returns the human-facing question: the question field when
// present, otherwise "title - subtitle" (or just the title).
func (m *Market) DisplayQuestion() string {
	if m.Question != "" {
		return m.Question
	}
	if m.Title != "" {
		if m.Subtitle != "" {
			return m.Title + " - " + m.Subtitle
		}
		return m.Title
	}
	return ""
}

// Normalize applies the or-default field handling once at ingestion so the
// detectors never see NaN, infinite, or negative prices. Fetchers call it on
// every record before it enters the engine.
func (m *Market) Normalize() {
	m.ID = strings.TrimSpace(m.ID)
	for i, p := range m.OutcomePrices {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			m.OutcomePrices[i] = 0
		}
	}
	if math.IsNaN(m.Liquidity) || m.Liquidity < 0 {
		m.Liquidity = 0
	}
}
