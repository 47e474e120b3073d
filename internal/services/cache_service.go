package services

import (
	"context"
	"time"
)

// CacheService is the cache-aside surface used by the repositories.
// Implemented by pkg/cache.RedisCache; nil-safe callers treat a miss and an
// unavailable cache identically.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
