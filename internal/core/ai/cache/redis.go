package cache

import (
	"context"
	"fmt"
	"time"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// redisStore redis 快取後端
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// newRedisStore 建立 redis 後端並測試連線
func newRedisStore(cfg *config.Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{
		client: client,
		ttl:    cfg.Cache.TTL,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
