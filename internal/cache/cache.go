// Package cache provides Redis-backed caching for scraped postings.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a Cache.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// GetJSON retrieves a cached value for the keyword into dest.
// Returns true only when a valid entry exists.
func (c *Cache) GetJSON(ctx context.Context, keyword string, dest any) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, buildKey(keyword)).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a value for the keyword with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, keyword string, value any) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}

	return c.client.Set(ctx, buildKey(keyword), data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func buildKey(keyword string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(keyword)))
	return fmt.Sprintf("jobsphere:scrape:%x", hash[:8])
}
