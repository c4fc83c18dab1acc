package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/arbscan/internal/alert"
	"github.com/alanyoungcy/arbscan/internal/cache/redis"
	"github.com/alanyoungcy/arbscan/internal/config"
	"github.com/alanyoungcy/arbscan/internal/engine"
	"github.com/alanyoungcy/arbscan/internal/matcher"
	"github.com/alanyoungcy/arbscan/internal/scanner"
	"github.com/alanyoungcy/arbscan/internal/venue/kalshi"
	"github.com/alanyoungcy/arbscan/internal/venue/manifold"
	"github.com/alanyoungcy/arbscan/internal/venue/polymarket"
)

// Dependencies bundles everything the scan loop needs. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Fetchers []scanner.Fetcher
	Engine   *engine.Engine
	Matcher  *matcher.Matcher
	Dedup    scanner.Deduper
	Notifier *alert.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	keywords := cfg.CategoryKeywords()

	var fetchers []scanner.Fetcher
	for _, v := range cfg.Venues.Enabled {
		switch strings.ToLower(v) {
		case "polymarket":
			fetchers = append(fetchers, polymarket.New(cfg.Venues.PolymarketHost, cfg.Venues.MaxPagesPolymarket, keywords, logger))
		case "kalshi":
			fetchers = append(fetchers, kalshi.New(cfg.Venues.KalshiHost, cfg.Venues.MaxPagesKalshi, keywords, logger))
		case "manifold":
			fetchers = append(fetchers, manifold.New(cfg.Venues.ManifoldHost, logger))
		default:
			cleanup()
			return nil, nil, fmt.Errorf("app: unknown venue %q", v)
		}
	}

	// Alert dedup: Redis when configured, in-process otherwise.
	var dedup scanner.Deduper
	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("app: connect redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		dedup = redis.NewAlertCache(client, cfg.Scanner.DedupTTL.Duration)
	} else {
		mem := alert.NewMemoryDedup(cfg.Scanner.DedupTTL.Duration)
		closers = append(closers, mem.Close)
		dedup = mem
	}

	var senders []alert.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, alert.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, alert.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}

	deps := &Dependencies{
		Fetchers: fetchers,
		Engine: engine.New(engine.Config{
			MinProfitThreshold: cfg.Engine.MinProfitThreshold,
			MinROIPercent:      cfg.Engine.MinROIPercent,
			TotalCapital:       cfg.Engine.TotalCapital,
			Workers:            cfg.Engine.Workers,
		}, logger),
		Matcher:  matcher.New(logger),
		Dedup:    dedup,
		Notifier: alert.NewNotifier(senders, cfg.Notify.Events, logger),
	}
	return deps, cleanup, nil
}
