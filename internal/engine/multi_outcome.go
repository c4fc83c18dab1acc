package engine

import (
	"fmt"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// scanMultiOutcome finds markets with more than two outcomes whose prices sum
// to less than $1: buying every outcome once guarantees a $1 payout. A single
// fee applies since each outcome is bought exactly once. Unlike the binary
// check there is no ROI gate, only the absolute profit threshold.
func (e *Engine) scanMultiOutcome(markets []domain.Market) []domain.Opportunity {
	var opps []domain.Opportunity
	for i := range markets {
		m := &markets[i]
		if len(m.OutcomePrices) <= 2 {
			continue
		}

		var total float64
		for _, p := range m.OutcomePrices {
			total += p
		}
		if total <= 0 || total >= 1 {
			continue
		}

		gross := 1 - total
		fees := total * feeRate(m.Venue)
		net := gross - fees
		if net < e.cfg.MinProfitThreshold {
			continue
		}

		n := len(m.OutcomePrices)
		opps = append(opps, domain.Opportunity{
			ID:                "multi_" + m.ID,
			Kind:              domain.OpportunityMultiOutcome,
			Description:       fmt.Sprintf("%d outcomes sum to $%.2f (should be $1.00)", n, total),
			MarketA:           m.ID,
			MarketB:           m.ID,
			VenueA:            m.Venue,
			VenueB:            m.Venue,
			URLA:              m.URL,
			URLB:              m.URL,
			BuyYesPrice:       total,
			BuyNoPrice:        0,
			TotalCost:         total,
			GrossProfit:       gross,
			NetProfit:         net,
			ROIPercent:        net / total * 100,
			SuggestedPosition: e.positionSize(net, total),
			Action:            fmt.Sprintf("Buy ALL %d outcomes on %s for $%.2f", n, m.Venue, total),
		})
	}
	return opps
}
