package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/config"
)

// ErrCacheMiss returned by GetJSON when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Client Redis client wrapper.
// Backs the public rate limiter and the language catalog cache.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings Redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── rate limit ──

const rateLimitPrefix = "ratelimit:"

// CheckRateLimit sliding-window limiter on a sorted set.
// Returns whether the request is allowed and how many requests are left.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := time.Now()
	fullKey := rateLimitPrefix + key
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, fullKey, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	card := pipe.ZCard(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(card.Val())
	if count > limit {
		return false, 0, nil
	}
	return true, limit - count, nil
}

// ── cache ──

const cachePrefix = "cache:"

// GetJSON decodes a cached value into dst; ErrCacheMiss when absent
func (c *Client) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON stores value as JSON with a TTL
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cachePrefix+key, raw, ttl).Err()
}

// Delete drops a cached key
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, cachePrefix+key).Err()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
