package domain

// OpportunityKind classifies the arbitrage strategy that produced an
// Opportunity.
type OpportunityKind string

const (
	OpportunitySingleVenue   OpportunityKind = "Single-Platform"
	OpportunityCrossVenue    OpportunityKind = "Cross-Platform"
	OpportunityCombinatorial OpportunityKind = "Combinatorial"
	OpportunityMultiOutcome  OpportunityKind = "Multi-Condition"
)

// Opportunity is an immutable detection result. ID is deterministic for the
// same underlying market pair so the alert dedup cache can key on it across
// scan cycles.
type Opportunity struct {
	ID                string          `json:"id"`
	Kind              OpportunityKind `json:"kind"`
	Description       string          `json:"description"`
	MarketA           string          `json:"market_a"`
	MarketB           string          `json:"market_b"`
	VenueA            Venue           `json:"venue_a"`
	VenueB            Venue           `json:"venue_b"`
	URLA              string          `json:"url_a"`
	URLB              string          `json:"url_b"`
	BuyYesPrice       float64         `json:"buy_yes_price"`
	BuyNoPrice        float64         `json:"buy_no_price"`
	TotalCost         float64         `json:"total_cost"`
	GrossProfit       float64         `json:"gross_profit"`
	NetProfit         float64         `json:"net_profit_after_fees"`
	ROIPercent        float64         `json:"roi_percent"`
	SuggestedPosition float64         `json:"suggested_position"`
	Action            string          `json:"action"`
}
