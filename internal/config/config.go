// Package config defines the top-level configuration for the arbitrage
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ARBSCAN_* environment variables.
type Config struct {
	Venues   VenuesConfig  `toml:"venues"`
	Engine   EngineConfig  `toml:"engine"`
	Scanner  ScannerConfig `toml:"scanner"`
	Redis    RedisConfig   `toml:"redis"`
	Notify   NotifyConfig  `toml:"notify"`
	LogLevel string        `toml:"log_level"`
}

// VenuesConfig holds venue API endpoints, paging limits, and the category
// filter applied at fetch time.
type VenuesConfig struct {
	Enabled            []string `toml:"enabled"`
	PolymarketHost     string   `toml:"polymarket_host"`
	KalshiHost         string   `toml:"kalshi_host"`
	ManifoldHost       string   `toml:"manifold_host"`
	MaxPagesPolymarket int      `toml:"max_pages_polymarket"`
	MaxPagesKalshi     int      `toml:"max_pages_kalshi"`
	EnabledCategories  []string `toml:"enabled_categories"`
}

// EngineConfig holds detection thresholds and sizing parameters.
type EngineConfig struct {
	MinProfitThreshold float64 `toml:"min_profit_threshold"`
	MinROIPercent      float64 `toml:"min_roi_percent"`
	TotalCapital       float64 `toml:"total_capital"`
	Workers            int     `toml:"workers"`
}

// ScannerConfig holds the scan-loop parameters.
type ScannerConfig struct {
	Interval             duration `toml:"interval"`
	DedupTTL             duration `toml:"dedup_ttl"`
	NotificationsEnabled bool     `toml:"notifications_enabled"`
}

// RedisConfig holds Redis connection parameters. When disabled, alert
// deduplication falls back to an in-process cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds notification channel credentials and the event filter.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding of values like "5s" or "1h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var validVenues = map[string]bool{
	"polymarket": true,
	"kalshi":     true,
	"manifold":   true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// categoryKeywords maps a category name to the lower-cased keywords that
// identify markets belonging to it.
var categoryKeywords = map[string][]string{
	"politics":      {"election", "president", "congress", "senate", "governor", "trump", "biden", "harris", "republican", "democrat"},
	"sports":        {"nba", "nfl", "mlb", "nhl", "soccer", "football", "basketball", "baseball", "game", "championship"},
	"crypto":        {"bitcoin", "ethereum", "btc", "eth", "crypto", "blockchain", "defi", "nft"},
	"economics":     {"fed", "interest rate", "inflation", "gdp", "recession", "stock", "market", "economy"},
	"entertainment": {"oscar", "grammy", "movie", "tv", "celebrity", "award"},
	"tech":          {"ai", "apple", "google", "microsoft", "tesla", "spacex", "technology"},
	"world":         {"war", "ukraine", "russia", "china", "nato", "un", "world"},
}

// Defaults returns the built-in configuration. Values mirror a conservative
// single-operator deployment: scan every 5 seconds, alert once per hour per
// opportunity, no Redis.
func Defaults() Config {
	return Config{
		Venues: VenuesConfig{
			Enabled:            []string{"polymarket", "kalshi", "manifold"},
			PolymarketHost:     "https://gamma-api.polymarket.com",
			KalshiHost:         "https://api.elections.kalshi.com/trade-api/v2",
			ManifoldHost:       "https://api.manifold.markets",
			MaxPagesPolymarket: 10,
			MaxPagesKalshi:     5,
			EnabledCategories:  []string{"politics", "sports", "crypto", "economics"},
		},
		Engine: EngineConfig{
			MinProfitThreshold: 0.05,
			MinROIPercent:      1.0,
			TotalCapital:       1000,
			Workers:            0, // 0 means one per CPU
		},
		Scanner: ScannerConfig{
			Interval:             duration{5 * time.Second},
			DedupTTL:             duration{time.Hour},
			NotificationsEnabled: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		LogLevel: "info",
	}
}

// CategoryKeywords flattens the enabled categories into the keyword list the
// fetchers filter on. Unknown category names contribute nothing; an empty
// result disables filtering.
func (c *Config) CategoryKeywords() []string {
	var keywords []string
	for _, cat := range c.Venues.EnabledCategories {
		keywords = append(keywords, categoryKeywords[strings.ToLower(cat)]...)
	}
	return keywords
}

// Validate checks the configuration for inconsistencies and returns an error
// describing all problems found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(c.Venues.Enabled) == 0 {
		errs = append(errs, "venues: at least one venue must be enabled")
	}
	for _, v := range c.Venues.Enabled {
		if !validVenues[strings.ToLower(v)] {
			errs = append(errs, fmt.Sprintf("venues: unknown venue %q (valid: polymarket, kalshi, manifold)", v))
		}
	}
	if c.Venues.MaxPagesPolymarket < 1 {
		errs = append(errs, "venues: max_pages_polymarket must be >= 1")
	}
	if c.Venues.MaxPagesKalshi < 1 {
		errs = append(errs, "venues: max_pages_kalshi must be >= 1")
	}

	if c.Engine.MinProfitThreshold < 0 {
		errs = append(errs, "engine: min_profit_threshold must not be negative")
	}
	if c.Engine.MinROIPercent < 0 {
		errs = append(errs, "engine: min_roi_percent must not be negative")
	}
	if c.Engine.TotalCapital <= 0 {
		errs = append(errs, "engine: total_capital must be positive")
	}
	if c.Engine.Workers < 0 {
		errs = append(errs, "engine: workers must not be negative")
	}

	if c.Scanner.Interval.Duration <= 0 {
		errs = append(errs, "scanner: interval must be positive")
	}
	if c.Scanner.DedupTTL.Duration <= 0 {
		errs = append(errs, "scanner: dedup_ttl must be positive")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when redis is enabled")
	}

	// Telegram credentials come as a pair.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
