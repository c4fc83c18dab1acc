package engine

// Position sizing parameters. The arbitrage is treated as near-certain
// (assumed 95% win probability) and a quarter-Kelly fraction is applied;
// exposure is capped at 10% of capital per opportunity. This is a heuristic
// sizing rule, not a probability model.
const (
	assumedWinProb = 0.95
	kellyFraction  = 0.25
	maxCapitalFrac = 0.1
)

// positionSize converts a (net profit, cost) pair into a capital allocation.
// It returns 0 when the Kelly fraction is non-positive.
func (e *Engine) positionSize(netProfit, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	edge := netProfit / cost
	kelly := edge*assumedWinProb - (1 - assumedWinProb)
	conservative := kelly * kellyFraction
	if conservative <= 0 {
		return 0
	}
	size := conservative * e.cfg.TotalCapital
	if max := e.cfg.TotalCapital * maxCapitalFrac; size > max {
		size = max
	}
	return size
}
