package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/domain"
)

// Cache provides Redis-backed session storage and a username lookup cache.
// Leaderboards and achievements are always recomputed from PostgreSQL;
// only names and sessions live here.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache creates a new Redis cache
func NewCache(cfg *config.RedisConfig, logger *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client
func (c *Cache) Client() *redis.Client {
	return c.client
}

// usernameKey returns the Redis key for a user's cached display name
func (c *Cache) usernameKey(userID string) string {
	return fmt.Sprintf("user:%s:name", userID)
}

// sessionKey returns the Redis key for a session
func (c *Cache) sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// SetUsername caches a user's display name
func (c *Cache) SetUsername(ctx context.Context, userID, username string) error {
	if err := c.client.Set(ctx, c.usernameKey(userID), username, 0).Err(); err != nil {
		return fmt.Errorf("caching username: %w", err)
	}
	return nil
}

// GetUsername returns a cached display name. The second return value is
// false on a cache miss.
func (c *Cache) GetUsername(ctx context.Context, userID string) (string, bool, error) {
	username, err := c.client.Get(ctx, c.usernameKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting cached username: %w", err)
	}
	return username, true, nil
}

// SetUsernames caches display names for many users in one round trip
func (c *Cache) SetUsernames(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for userID, username := range names {
		pipe.Set(ctx, c.usernameKey(userID), username, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching usernames: %w", err)
	}
	return nil
}

// CreateSession mints a session key for a user with the given TTL
func (c *Cache) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	key := uuid.NewString()
	if err := c.client.Set(ctx, c.sessionKey(key), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return key, nil
}

// GetSession resolves a session key to a user id
func (c *Cache) GetSession(ctx context.Context, key string) (string, error) {
	userID, err := c.client.Get(ctx, c.sessionKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("getting session: %w", err)
	}
	return userID, nil
}

// DeleteSession invalidates a session key
func (c *Cache) DeleteSession(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.sessionKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
