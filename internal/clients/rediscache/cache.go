package rediscache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
)

// StatusCache is a short-TTL read cache in front of the status-poll query.
// Pollers re-query every few seconds per user, so even a 2s TTL absorbs the
// bulk of the read load. The cache is strictly optional: a nil *StatusCache
// is safe to call and every redis failure degrades to a miss.
type StatusCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// New returns nil when no redis address is configured; callers hold a
// possibly-nil *StatusCache and the methods tolerate that.
func New(addr string, ttl time.Duration, baseLog *logger.Logger) *StatusCache {
	if addr == "" {
		return nil
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	log := baseLog.With("client", "StatusCache")
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, status cache disabled", "error", err)
		return nil
	}
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &StatusCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *StatusCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, "interpretation_status:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *StatusCache) Set(ctx context.Context, key string, val []byte) {
	if c == nil || key == "" || len(val) == 0 {
		return
	}
	if err := c.rdb.Set(ctx, "interpretation_status:"+key, val, c.ttl).Err(); err != nil {
		c.log.Debug("Status cache write failed", "error", err)
	}
}

func (c *StatusCache) Invalidate(ctx context.Context, key string) {
	if c == nil || key == "" {
		return
	}
	if err := c.rdb.Del(ctx, "interpretation_status:"+key).Err(); err != nil {
		c.log.Debug("Status cache invalidation failed", "error", err)
	}
}
