package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const balanceKeyPrefix = "esa:balance:"

// RedisBalanceCache keeps own balances in Redis as decimal strings.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ portsrepo.BalanceCache = (*RedisBalanceCache)(nil)

// NewRedisBalanceCache creates a cache on an existing client.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func balanceKey(userID string) string {
	return balanceKeyPrefix + userID
}

func (c *RedisBalanceCache) GetOwnBalance(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read cached balance of %s: %w", userID, err)
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance of %s: %w", userID, err)
	}
	return balance, true, nil
}

func (c *RedisBalanceCache) SetOwnBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	if err := c.client.Set(ctx, balanceKey(userID), balance.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance of %s: %w", userID, err)
	}
	return nil
}

func (c *RedisBalanceCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = balanceKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached balances: %w", err)
	}
	return nil
}
