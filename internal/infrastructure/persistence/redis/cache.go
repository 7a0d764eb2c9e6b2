// Package redis implements the Redis-backed session store and the small
// JSON cache wrapper it is built on.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the client configuration. Zero timeouts use go-redis defaults.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig points at a local server.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

var (
	// ErrCacheMiss means the key does not exist or has expired.
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrCacheConnection wraps failures of the initial ping.
	ErrCacheConnection = errors.New("cache: connection failed")
	// ErrCacheEncoding wraps JSON failures in either direction.
	ErrCacheEncoding = errors.New("cache: encoding failed")
	// ErrCacheKeyEmpty rejects empty keys.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// PrefixSession namespaces session keys.
const PrefixSession = "session:"

// SessionKey returns the Redis key of a session token.
func SessionKey(token string) string {
	return PrefixSession + token
}

// Cache stores JSON values with TTLs.
type Cache struct {
	client *redis.Client
}

// NewCache connects and pings within the dial timeout.
func NewCache(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheConnection, cfg.Addr, err)
	}
	return &Cache{client: client}, nil
}

// Close releases the connection pool.
func (c *Cache) Close() error { return c.client.Close() }

// Ping checks that the server answers.
func (c *Cache) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

// Set encodes value as JSON. A zero ttl keeps the key until deleted.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheEncoding, err)
	}
	return c.client.Set(ctx, key, data, max(ttl, 0)).Err()
}

// Get decodes the value at key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheEncoding, err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// TTL returns the remaining lifetime of key.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, key).Result()
}
