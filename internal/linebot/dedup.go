package linebot

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	dedupKeyPrefix = "linebot:event:"
	dedupTTL       = 24 * time.Hour
)

// Deduplicator drops webhook events already handled by any replica.
// LINE marks redeliveries with a flag, but the flag alone cannot catch
// the same delivery landing on two instances; the Redis guard can.
// A nil Deduplicator or nil client disables the guard.
type Deduplicator struct {
	client *redis.Client
	logger *slog.Logger
}

func NewDeduplicator(client *redis.Client, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{client: client, logger: logger}
}

// Seen records the event id and reports whether it was already
// recorded. Redis errors fail open: a duplicate reply is cheaper than
// a dropped command.
func (d *Deduplicator) Seen(ctx context.Context, eventID string) bool {
	if d == nil || d.client == nil || eventID == "" {
		return false
	}

	fresh, err := d.client.SetNX(ctx, dedupKeyPrefix+eventID, 1, dedupTTL).Result()
	if err != nil {
		d.logger.Warn("dedup check failed", "event_id", eventID, "error", err)
		return false
	}

	return !fresh
}
