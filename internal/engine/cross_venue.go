package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Cross-venue spread detection is restricted to Polymarket/Kalshi pairs;
// Manifold's play-money prices are too soft for a two-venue hedge.
const (
	crossMaxLenDiff    = 60
	crossMinSimilarity = 0.4
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "will": {}, "be": {},
	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "at": {}, "by": {},
}

// tokenizedMarket caches the lower-cased text and filtered token set for one
// market so the pairwise scan never re-tokenizes.
type tokenizedMarket struct {
	market *domain.Market
	text   string
	tokens map[string]struct{}
}

// scanCrossVenue finds two-venue hedges on textually similar binary markets.
// Candidate pairs pass a cheap length prefilter, then a Jaccard similarity
// gate over stop-word-filtered token sets, before the spread arithmetic runs.
// The Polymarket side is partitioned across workers; the Kalshi side is a
// shared read-only snapshot.
func (e *Engine) scanCrossVenue(ctx context.Context, markets []domain.Market) []domain.Opportunity {
	poly := tokenizeVenue(markets, domain.VenuePolymarket)
	kalshi := tokenizeVenue(markets, domain.VenueKalshi)
	if len(poly) == 0 || len(kalshi) == 0 {
		return nil
	}

	parts := partition(len(poly), e.cfg.Workers)
	results := make([][]domain.Opportunity, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	for w, p := range parts {
		w, p := w, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var local []domain.Opportunity
			for i := p.lo; i < p.hi; i++ {
				a := &poly[i]
				if len(a.tokens) == 0 {
					continue
				}
				for k := range kalshi {
					b := &kalshi[k]
					if len(b.tokens) == 0 {
						continue
					}
					if lenDiff(a.text, b.text) > crossMaxLenDiff {
						continue
					}
					if jaccard(a.tokens, b.tokens) <= crossMinSimilarity {
						continue
					}
					if opp, ok := e.crossVenueSpread(a.market, b.market); ok {
						local = append(local, opp)
					}
				}
			}
			results[w] = local
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Opportunity
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// crossVenueSpread evaluates both hedge directions between two similar
// markets and keeps the better one: YES on A + NO on B, or YES on B + NO on
// A. Each direction needs all four prices non-zero; fees are charged per leg
// by venue.
func (e *Engine) crossVenueSpread(a, b *domain.Market) (domain.Opportunity, bool) {
	yesA, noA := a.YesPrice(), a.NoPrice()
	yesB, noB := b.YesPrice(), b.NoPrice()
	if yesA == 0 || noA == 0 || yesB == 0 || noB == 0 {
		return domain.Opportunity{}, false
	}

	feeA, feeB := feeRate(a.Venue), feeRate(b.Venue)

	cost1 := yesA + noB
	net1 := 1 - cost1 - (yesA*feeA + noB*feeB)

	cost2 := yesB + noA
	net2 := 1 - cost2 - (yesB*feeB + noA*feeA)

	cost, net := cost1, net1
	yesMkt, noMkt := a, b
	yesPrice, noPrice := yesA, noB
	if net2 > net1 {
		cost, net = cost2, net2
		yesMkt, noMkt = b, a
		yesPrice, noPrice = yesB, noA
	}

	if net < e.cfg.MinProfitThreshold || cost <= 0 {
		return domain.Opportunity{}, false
	}
	roi := net / cost * 100
	if roi < e.cfg.MinROIPercent {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		ID:                "cross_" + yesMkt.ID + "_" + noMkt.ID,
		Kind:              domain.OpportunityCrossVenue,
		Description:       truncate(yesMkt.DisplayQuestion(), 50),
		MarketA:           yesMkt.ID,
		MarketB:           noMkt.ID,
		VenueA:            yesMkt.Venue,
		VenueB:            noMkt.Venue,
		URLA:              yesMkt.URL,
		URLB:              noMkt.URL,
		BuyYesPrice:       yesPrice,
		BuyNoPrice:        noPrice,
		TotalCost:         cost,
		GrossProfit:       1 - cost,
		NetProfit:         net,
		ROIPercent:        roi,
		SuggestedPosition: e.positionSize(net, cost),
		Action: fmt.Sprintf("Buy YES @$%.2f on %s + Buy NO @$%.2f on %s",
			yesPrice, yesMkt.Venue, noPrice, noMkt.Venue),
	}, true
}

// tokenizeVenue collects the markets of one venue with their lower-cased
// text and token sets precomputed.
func tokenizeVenue(markets []domain.Market, venue domain.Venue) []tokenizedMarket {
	var out []tokenizedMarket
	for i := range markets {
		if markets[i].Venue != venue {
			continue
		}
		text := strings.ToLower(markets[i].Text())
		out = append(out, tokenizedMarket{
			market: &markets[i],
			text:   text,
			tokens: tokenize(text),
		})
	}
	return out
}

// tokenize splits lower-cased text into a set of whitespace tokens,
// dropping stop words and tokens of one or two characters.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens[w] = struct{}{}
	}
	return tokens
}

// jaccard returns |A∩B| / |A∪B| over two token sets.
func jaccard(a, b map[string]struct{}) float64 {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func lenDiff(a, b string) int {
	d := len(a) - len(b)
	if d < 0 {
		return -d
	}
	return d
}
