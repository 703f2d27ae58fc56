package filestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

// RedisKeyPrefix namespaces upload keys in a shared Redis.
const RedisKeyPrefix = "tenantry:upload:"

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore keeps files as Redis strings. Locators are the namespaced keys.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisStore stores files without expiry when ttl is zero.
func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	locator := RedisKeyPrefix + key
	if err := s.client.Set(ctx, locator, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set %s: %w", locator, err)
	}
	return locator, nil
}

func (s *RedisStore) Load(ctx context.Context, locator string) ([]byte, error) {
	if !strings.HasPrefix(locator, RedisKeyPrefix) {
		return nil, fmt.Errorf("%w: %s is not a redis locator", domain.ErrFileNotFound, locator)
	}
	data, err := s.client.Get(ctx, locator).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, locator)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", locator, err)
	}
	return data, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
