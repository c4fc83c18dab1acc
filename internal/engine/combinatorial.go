package engine

import (
	"fmt"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Noise filter: the implication invariant P(implying) <= P(implied) must be
// violated by more than two points before we treat it as mispricing.
const implicationMargin = 0.02

// scanCombinatorial exploits violated logical implications. If market A
// implies market B, P(A) <= P(B) must hold; when P(A) > P(B) the hedge is to
// buy NO on A and YES on B, which captures the price gap whichever way A
// resolves. Gross profit is the gap itself, not 1-cost. The ROI is reported
// but deliberately not gated: this path filters on absolute profit only.
func (e *Engine) scanCombinatorial(markets []domain.Market) []domain.Opportunity {
	texts := loweredText(markets)
	deps := detectDependencies(texts)

	var opps []domain.Opportunity
	for _, dep := range deps {
		implying := &markets[dep.implying]
		implied := &markets[dep.implied]

		pa := implying.YesPrice()
		pb := implied.YesPrice()
		if pa < minReliablePrice || pb < minReliablePrice {
			continue
		}
		if pa <= pb+implicationMargin {
			continue
		}

		implyingNo := implying.NoPrice()
		cost := implyingNo + pb
		fees := implyingNo*feeRate(implying.Venue) + pb*feeRate(implied.Venue)
		gross := pa - pb
		net := gross - fees
		if net < e.cfg.MinProfitThreshold {
			continue
		}

		implyingText := implying.Text()
		impliedText := implied.Text()
		opps = append(opps, domain.Opportunity{
			ID:          "comb_" + implying.ID + "_" + implied.ID,
			Kind:        domain.OpportunityCombinatorial,
			Description: fmt.Sprintf("LOGICAL: '%s' implies '%s' but priced higher", truncate(implyingText, 25), truncate(impliedText, 25)),
			MarketA:     implying.ID,
			MarketB:     implied.ID,
			VenueA:      implying.Venue,
			VenueB:      implied.Venue,
			URLA:        implying.URL,
			URLB:        implied.URL,
			BuyYesPrice: pb,
			BuyNoPrice:  implyingNo,
			TotalCost:   cost,
			GrossProfit: gross,
			NetProfit:   net,
			ROIPercent:  net / cost * 100,
			SuggestedPosition: e.positionSize(net, cost),
			Action: fmt.Sprintf("Buy NO on '%s' @$%.2f + Buy YES on '%s' @$%.2f",
				truncate(implyingText, 15), implyingNo,
				truncate(impliedText, 15), pb),
		})
	}
	return opps
}
