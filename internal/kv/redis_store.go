package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/storify/storify-backend/pkg/logger"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by Redis. Slots have no expiry; a
// snapshot stays until the next write replaces it.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		logger.Error("Failed to read slot from Redis", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		logger.Error("Failed to write slot to Redis", err, map[string]interface{}{
			"key":  key,
			"size": len(value),
		})
		return err
	}

	logger.Debug("Slot written to Redis", map[string]interface{}{
		"key":  key,
		"size": len(value),
	})
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to delete slot from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
