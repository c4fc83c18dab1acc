// Package scanner runs the
// fetch / analyze / match / alert cycle on a fixed interval.
package scanner

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/arbscan/internal/alert"
	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/engine"
	"github.com/alanyoungcy/arbscan/internal/matcher"
)

// Fetcher retrieves the current open markets for one venue.
type Fetcher interface {
	Venue() domain.Venue
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}

// Deduper reports whether an alert ID is new inside the suppression window.
// Implemented by the Redis alert cache and by alert.MemoryDedup.
type Deduper interface {
	MarkSeen(ctx context.Context, id string) (bool, error)
}

// Notifier delivers rendered alerts. Implemented by alert.Notifier.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
	NotifyAll(ctx context.Context, title, message string) error
}

// Config holds the scan-loop parameters.
type Config struct {
	Interval             time.Duration
	NotificationsEnabled bool
}

// Scanner drives repeated scan cycles: fetch all venues in parallel, run the
// detection engine and the cross-venue matcher, then alert on anything the
// deduper has not seen.
type Scanner struct {
	fetchers []Fetcher
	engine   *engine.Engine
	matcher  *matcher.Matcher
	dedup    Deduper
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
}

func New(fetchers []Fetcher, eng *engine.Engine, m *matcher.Matcher, dedup Deduper, notifier Notifier, cfg Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		fetchers: fetchers,
		engine:   eng,
		matcher:  m,
		dedup:    dedup,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "scanner")),
	}
}

// Run executes scan cycles until the context is cancelled. A failing cycle
// is logged and does not stop the loop.
func (s *Scanner) Run(ctx context.Context) error {
	if s.cfg.NotificationsEnabled {
		venues := make([]string, 0, len(s.fetchers))
		for _, f := range s.fetchers {
			venues = append(venues, string(f.Venue()))
		}
		title, msg := alert.RenderStartup(venues, s.cfg.Interval)
		if err := s.notifier.NotifyAll(ctx, title, msg); err != nil {
			s.logger.WarnContext(ctx, "startup notification failed", slog.String("error", err.Error()))
		}
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle performs one full scan.
func (s *Scanner) runCycle(ctx context.Context) {
	scanID := uuid.NewString()
	logger := s.logger.With(slog.String("scan_id", scanID))
	start := time.Now()

	byVenue := s.fetchAll(ctx, logger)

	var total int
	venues := make([]domain.Venue, 0, len(byVenue))
	for v, markets := range byVenue {
		venues = append(venues, v)
		total += len(markets)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })

	all := make([]domain.Market, 0, total)
	for _, v := range venues {
		all = append(all, byVenue[v]...)
	}
	fetchDone := time.Now()

	opps := s.engine.Analyze(ctx, all)
	analyzeDone := time.Now()

	matches := s.matcher.MatchAll(ctx, byVenue)
	matchDone := time.Now()

	newOpps := 0
	for i := range opps {
		if !s.markSeen(ctx, logger, opps[i].ID) {
			continue
		}
		newOpps++
		logger.InfoContext(ctx, "opportunity found",
			slog.String("id", opps[i].ID),
			slog.String("kind", string(opps[i].Kind)),
			slog.Float64("net_profit", opps[i].NetProfit),
			slog.Float64("roi_percent", opps[i].ROIPercent))
		s.send(ctx, logger, alert.EventOpportunity, func() (string, string) {
			return alert.RenderOpportunity(&opps[i])
		})
	}

	newMatches := 0
	for i := range matches {
		if !s.markSeen(ctx, logger, matches[i].AlertID()) {
			continue
		}
		newMatches++
		logger.InfoContext(ctx, "cross-venue match found",
			slog.String("venue_a", string(matches[i].VenueA)),
			slog.String("venue_b", string(matches[i].VenueB)),
			slog.Float64("price_diff", matches[i].PriceDiff),
			slog.Float64("confidence", matches[i].Confidence))
		s.send(ctx, logger, alert.EventCrossMatch, func() (string, string) {
			return alert.RenderCrossMatch(&matches[i])
		})
	}

	if newOpps+newMatches > 0 {
		s.send(ctx, logger, alert.EventSummary, func() (string, string) {
			return alert.RenderSummary(total, newOpps, newMatches, time.Since(start))
		})
	}

	logger.InfoContext(ctx, "scan complete",
		slog.Int("markets", total),
		slog.Int("opportunities", len(opps)),
		slog.Int("matches", len(matches)),
		slog.Int("new_alerts", newOpps+newMatches),
		slog.Duration("fetch", fetchDone.Sub(start)),
		slog.Duration("analyze", analyzeDone.Sub(fetchDone)),
		slog.Duration("match", matchDone.Sub(analyzeDone)),
		slog.Duration("elapsed", time.Since(start)))
}

// fetchAll queries every venue in parallel. A venue that fails contributes
// no markets; the rest of the cycle proceeds with whatever arrived.
func (s *Scanner) fetchAll(ctx context.Context, logger *slog.Logger) map[domain.Venue][]domain.Market {
	byVenue := make(map[domain.Venue][]domain.Market, len(s.fetchers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range s.fetchers {
		f := f
		g.Go(func() error {
			markets, err := f.FetchMarkets(gctx)
			if err != nil {
				logger.WarnContext(gctx, "venue fetch failed",
					slog.String("venue", string(f.Venue())),
					slog.String("error", err.Error()))
				return nil
			}
			mu.Lock()
			byVenue[f.Venue()] = markets
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return byVenue
}

// markSeen consults the deduper. Dedup failures do not suppress the alert.
func (s *Scanner) markSeen(ctx context.Context, logger *slog.Logger, id string) bool {
	fresh, err := s.dedup.MarkSeen(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "dedup check failed",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return true
	}
	return fresh
}

func (s *Scanner) send(ctx context.Context, logger *slog.Logger, event string, render func() (string, string)) {
	if !s.cfg.NotificationsEnabled {
		return
	}
	title, message := render()
	if err := s.notifier.Notify(ctx, event, title, message); err != nil {
		logger.WarnContext(ctx, "notification failed",
			slog.String("event", event),
			slog.String("error", err.Error()))
	}
}
