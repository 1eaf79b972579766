package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// CacheStore persists resolved queries across runs. Implemented by the
// SQLite run store.
type CacheStore interface {
	GetGeocode(ctx context.Context, key string) (*Result, bool, error)
	PutGeocode(ctx context.Context, key string, result Result) error
}

// CachingProvider wraps a live provider with a query cache. Unmatched
// results are cached too, so repeated runs don't re-query dead
// addresses.
type CachingProvider struct {
	inner Provider
	store CacheStore
}

// NewCachingProvider wraps p with the given cache store.
func NewCachingProvider(p Provider, store CacheStore) *CachingProvider {
	return &CachingProvider{inner: p, store: store}
}

// Name implements Provider.
func (c *CachingProvider) Name() string { return c.inner.Name() }

// Resolve implements Provider, consulting the cache first. Cache faults
// are logged and bypassed, never surfaced.
func (c *CachingProvider) Resolve(ctx context.Context, query string) (*Result, error) {
	key := CacheKey(c.inner.Name(), query)

	cached, ok, err := c.store.GetGeocode(ctx, key)
	if err != nil {
		zap.L().Warn("geocode cache: lookup failed", zap.Error(err))
	} else if ok {
		zap.L().Debug("geocode cache hit", zap.String("key", key[:12]))
		return cached, nil
	}

	result, err := c.inner.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.store.PutGeocode(ctx, key, *result); err != nil {
		zap.L().Warn("geocode cache: store failed", zap.Error(err))
	}
	return result, nil
}

// CacheKey hashes a provider/query pair into a stable cache key.
func CacheKey(provider, query string) string {
	h := sha256.Sum256([]byte(provider + "\x00" + strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(h[:])
}
