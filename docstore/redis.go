// Package docstore provides a Redis-based document store.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CreativeUnicorns/prefdoc"
)

// redisClient is the subset of redis.Client used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps the document text under a single prefixed key.
type RedisStore struct {
	client redisClient
	key    string
}

// NewRedisStore connects to Redis and binds the store to the named
// document.
func NewRedisStore(addr, password string, db int, name string) (*RedisStore, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty document name", prefdoc.ErrNilArgument)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    "prefdoc:" + name,
	}, nil
}

// Read returns the document text, or prefdoc.ErrDocumentNotFound when the
// key does not exist.
func (s *RedisStore) Read(ctx context.Context) (string, error) {
	text, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", prefdoc.ErrDocumentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document from redis: %w", err)
	}
	return text, nil
}

// Write stores or replaces the document text. Documents do not expire.
func (s *RedisStore) Write(ctx context.Context, text string) error {
	if err := s.client.Set(ctx, s.key, text, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document to redis: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
