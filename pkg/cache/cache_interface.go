package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer used by the services.
// Values are JSON encoded by the implementation.
type Cache interface {
	// Get loads key into dest. found is false on a cache miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern such as "search:*".
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
