// Package cache is the memcache stand-in: a small key/value API with expirations, add-only writes and
// counters that only move when the key is already present.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is implemented by the Redis client and by test mocks.
type Cache interface {
	// Get returns the raw value stored under key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value with the given ttl (0 means no expiry).
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Add stores value only when key is absent and reports whether it did.
	Add(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr adds delta to an existing integer value. A missing key yields ErrCacheMiss and is not created.
	Incr(ctx context.Context, key string, delta int64) (int64, error)
}

// GetJSON decodes the JSON value stored under key into dest.
func GetJSON(ctx context.Context, c Cache, key string, dest any) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode cached %q: %w", key, err)
	}
	return nil
}

// SetJSON stores v as JSON under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q for cache: %w", key, err)
	}
	return c.Set(ctx, key, string(b), ttl)
}
