package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper guards event handlers against duplicate deliveries using a redis
// SetNX lock per (handler, id) pair. It narrows the read-then-write race on
// "already classified" checks; it does not close it across processes.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{
		rdb: rdb,
		ttl: ttl,
	}
}

// NewDeduperWithLogger creates a deduper with logger support.
func NewDeduperWithLogger(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire a dedup lock for a given handler + id.
// Returns true if this is the FIRST time processing, false on a duplicate.
// When redis is unavailable, processing is allowed rather than blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, id string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, id)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("handler", handler),
				zap.String("id", id),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("id", id),
			zap.String("dedup_key", key),
		)
	}

	return ok
}

// Release drops the dedup lock so a requeued delivery is processed again.
// Handlers call it before nacking a retryable failure; without it the
// redelivery would be swallowed as a duplicate.
func (d *Deduper) Release(ctx context.Context, handler string, id string) {
	key := fmt.Sprintf("dedup:%s:%s", handler, id)

	if err := d.rdb.Del(ctx, key).Err(); err != nil && d.logger != nil {
		d.logger.Warn("Failed to release dedup lock",
			zap.String("handler", handler),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}
