// Package rdx is a thin JSON cache over Redis, used to keep the
// location-browse endpoint off Mongo for repeat queries. Itinerary
// views are never cached; a view must always reflect the latest slots.
package rdx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

type Cache struct {
	conn *redis.Client
	log  *zap.Logger
}

// New connects to Redis at url ("redis://host:port"). Returns an error
// rather than a lazy handle so startup fails fast on a bad URL.
func New(url string, log *zap.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{conn: conn, log: log}, nil
}

func (c *Cache) Close() error {
	return c.conn.Close()
}

// Get loads key into dest. A miss, a decode failure, or a nil cache
// all report false; the caller falls through to the database.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.conn.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("cache entry undecodable, dropping", zap.String("key", key), zap.Error(err))
		c.conn.Del(ctx, key)
		return false
	}
	return true
}

// Set stores val under key with the default TTL. Failures are logged
// and swallowed; the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		c.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.conn.Set(ctx, key, raw, defaultTTL).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix deletes every key under prefix. Called after
// location writes so stale browse pages do not outlive an edit.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	iter := c.conn.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.conn.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache invalidation scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
