package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AlertCache remembers which opportunities have already been alerted on, so
// an arbitrage that persists across scan cycles only notifies once per TTL
// window.
//
// Key schema:
//
//	alert:{opportunityID} - string "1" with the configured TTL
type AlertCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAlertCache creates an AlertCache backed by the given Client.
func NewAlertCache(c *Client, ttl time.Duration) *AlertCache {
	return &AlertCache{rdb: c.Underlying(), ttl: ttl}
}

func alertKey(id string) string { return "alert:" + id }

// MarkSeen records an alert ID and reports whether it was new. The SET NX
// round trip makes the check atomic across concurrent scanners.
func (ac *AlertCache) MarkSeen(ctx context.Context, id string) (bool, error) {
	ok, err := ac.rdb.SetNX(ctx, alertKey(id), "1", ac.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: mark alert %s: %w", id, err)
	}
	return ok, nil
}
