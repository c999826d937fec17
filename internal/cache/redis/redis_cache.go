package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ledgerlens/internal/config"
	"ledgerlens/internal/domain"
	"ledgerlens/internal/port"
)

type redisCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewCache wraps an existing client. A zero ttl stores entries without expiry.
func NewCache(client goredis.UniversalClient, ttl time.Duration) port.ExtractionCache {
	return &redisCache{client: client, ttl: ttl}
}

// Connect dials Redis from config and pings it once.
func Connect(ctx context.Context, cfg *config.CacheConfig) (port.ExtractionCache, func() error, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	return NewCache(client, cfg.TTL), client.Close, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (domain.CategoryData, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.CategoryData{}, false, nil
	}
	if err != nil {
		return domain.CategoryData{}, false, fmt.Errorf("redis get: %w", err)
	}

	var data domain.CategoryData
	if err := json.Unmarshal(val, &data); err != nil {
		return domain.CategoryData{}, false, fmt.Errorf("decoding cached snapshot: %w", err)
	}
	return data.Normalize(), true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, data domain.CategoryData) error {
	b, err := json.Marshal(data.Normalize())
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
