package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

type RedisConfig struct {
	URL string
}

// NewRedisStore connects to Redis and returns a preference store backed by it.
func NewRedisStore(cfg RedisConfig) (Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func prefKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("prefs:%s:%s", userID, key)
}

func (s *redisStore) Get(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	val, err := s.client.Get(ctx, prefKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, userID uuid.UUID, key, value string) error {
	if err := s.client.Set(ctx, prefKey(userID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.client.Del(ctx, prefKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}
