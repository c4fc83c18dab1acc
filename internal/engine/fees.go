package engine

import (
	"strings"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Per-venue fee rates charged on each filled leg.
const (
	polymarketFee = 0.02
	kalshiFee     = 0.01
	manifoldFee   = 0.02
	defaultFee    = 0.02
)

// feeRate returns the fee rate for a venue. Unknown venues get the default
// rate rather than an error; the engine has no fallible operations.
func feeRate(v domain.Venue) float64 {
	switch strings.ToLower(string(v)) {
	case "polymarket":
		return polymarketFee
	case "kalshi":
		return kalshiFee
	case "manifold":
		return manifoldFee
	default:
		return defaultFee
	}
}
