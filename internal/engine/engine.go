// Package engine implements the opportunity detection engine: single-venue,
// cross-venue, combinatorial, and multi-outcome arbitrage checks over a
// snapshot of normalized markets, plus Kelly-based position sizing.
//
// The engine is pure and stateless between invocations: it never mutates its
// input, performs no I/O, and every detector is a total function that skips
// unusable records instead of failing. A whole analysis either completes or
// the caller discards it.
package engine

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Prices below this are treated as unreliable and skipped by every detector.
const minReliablePrice = 0.01

// Config holds the engine thresholds and sizing parameters.
type Config struct {
	// MinProfitThreshold is the minimum net profit per $1 contract for an
	// opportunity to be emitted.
	MinProfitThreshold float64
	// MinROIPercent gates single-venue and cross-venue opportunities on
	// return-on-cost. Combinatorial and multi-outcome checks gate on
	// absolute profit only.
	MinROIPercent float64
	// TotalCapital is the bankroll the position sizer allocates from.
	TotalCapital float64
	// Workers bounds the fan-out of the data-parallel scans. Zero means
	// one worker per CPU.
	Workers int
}

// Engine runs every detection strategy over a market snapshot.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Engine with the given thresholds.
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "engine")),
	}
}

// Analyze runs all four detectors over the snapshot and returns the merged
// opportunities sorted by net profit descending. Single-venue results are
// computed first; the concatenation order (single, cross, combinatorial,
// multi-outcome) is the tiebreak for equal profits.
//
// If ctx is cancelled mid-scan the partial result is not meaningful and the
// caller should discard it.
func (e *Engine) Analyze(ctx context.Context, markets []domain.Market) []domain.Opportunity {
	start := time.Now()

	opps := e.scanSingleVenue(ctx, markets)
	opps = append(opps, e.scanCrossVenue(ctx, markets)...)
	opps = append(opps, e.scanCombinatorial(markets)...)
	opps = append(opps, e.scanMultiOutcome(markets)...)

	e.rank(opps)

	e.logger.DebugContext(ctx, "analysis complete",
		slog.Int("markets", len(markets)),
		slog.Int("opportunities", len(opps)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return opps
}

// rank sorts opportunities by net profit descending. The sort is stable, so
// exact ties keep detector insertion order; NaN (which the detectors never
// produce, but the comparator must stay total) sorts last.
func (e *Engine) rank(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i].NetProfit, opps[j].NetProfit
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
}

// scanSingleVenue partitions the market list across workers and runs the
// single-venue check on each partition. Workers own their output buffers
// exclusively; partitions are concatenated in order after the join.
func (e *Engine) scanSingleVenue(ctx context.Context, markets []domain.Market) []domain.Opportunity {
	if len(markets) == 0 {
		return nil
	}
	parts := partition(len(markets), e.cfg.Workers)
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
				if opp, ok := e.checkSingleVenue(&markets[i]); ok {
					local = append(local, opp)
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

// span is a half-open index range owned by one worker.
type span struct{ lo, hi int }

// partition splits n items into at most parts contiguous spans.
func partition(n, parts int) []span {
	if n <= 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	size := (n + parts - 1) / parts
	spans := make([]span, 0, parts)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		spans = append(spans, span{lo: lo, hi: hi})
	}
	return spans
}

// loweredText returns the lower-cased searchable text for every market,
// computed once per scan and shared read-only by the detectors.
func loweredText(markets []domain.Market) []string {
	texts := make([]string, len(markets))
	for i := range markets {
		texts[i] = strings.ToLower(markets[i].Text())
	}
	return texts
}

// truncate shortens s to at most max runes, appending "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
