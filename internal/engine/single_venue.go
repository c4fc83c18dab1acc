package engine

import (
	"fmt"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// checkSingleVenue looks for a YES+NO mispricing within one market: if both
// legs together cost less than the guaranteed $1 payout, buying both locks in
// the difference. Fees are charged on both legs.
func (e *Engine) checkSingleVenue(m *domain.Market) (domain.Opportunity, bool) {
	if len(m.OutcomePrices) < 2 {
		return domain.Opportunity{}, false
	}
	yes, no := m.YesPrice(), m.NoPrice()
	if yes < minReliablePrice || no < minReliablePrice {
		return domain.Opportunity{}, false
	}

	total := yes + no
	if total <= 0 || total >= 1 {
		return domain.Opportunity{}, false
	}

	gross := 1 - total
	fees := total * feeRate(m.Venue) * 2
	net := gross - fees
	if net < e.cfg.MinProfitThreshold {
		return domain.Opportunity{}, false
	}
	roi := net / total * 100
	if roi < e.cfg.MinROIPercent {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		ID:                "single_" + m.ID,
		Kind:              domain.OpportunitySingleVenue,
		Description:       m.DisplayQuestion(),
		MarketA:           m.ID,
		MarketB:           m.ID,
		VenueA:            m.Venue,
		VenueB:            m.Venue,
		URLA:              m.URL,
		URLB:              m.URL,
		BuyYesPrice:       yes,
		BuyNoPrice:        no,
		TotalCost:         total,
		GrossProfit:       gross,
		NetProfit:         net,
		ROIPercent:        roi,
		SuggestedPosition: e.positionSize(net, total),
		Action:            fmt.Sprintf("Buy YES @$%.2f + NO @$%.2f on %s", yes, no, m.Venue),
	}, true
}
