package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
	now    func() time.Time
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisClientFrom(rdb), nil
}

// NewRedisClientFrom wraps an existing go-redis client.
func NewRedisClientFrom(rdb *redis.Client) *RedisClient {
	return &RedisClient{Client: rdb, now: time.Now}
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}

func (r *RedisClient) usageKey(provider string) string {
	return fmt.Sprintf("usage:provider:%s:%s", provider, r.now().UTC().Format("2006-01-02"))
}

// GetDailyUsage implements llm.UsageRepo. A missing key counts as zero.
func (r *RedisClient) GetDailyUsage(ctx context.Context, provider string) (int, error) {
	n, err := r.Client.Get(ctx, r.usageKey(provider)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RedisClient) AddDailyUsage(ctx context.Context, provider string, n int) error {
	key := r.usageKey(provider)

	pipe := r.Client.Pipeline()
	pipe.IncrBy(ctx, key, int64(n))
	// Set Expiry (2 days is safe)
	pipe.Expire(ctx, key, 48*time.Hour)

	_, err := pipe.Exec(ctx)
	return err
}
