package identity

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/praise"
)

// DefaultCacheSize is the number of identities a CachedResolver keeps.
const DefaultCacheSize = 256

// CachedResolver keeps recently resolved identities in an LRU in front of
// another resolver. Only successful lookups are cached.
type CachedResolver struct {
	next  praise.Resolver
	cache *lru.Cache[cacheKey, models.Identity]
}

type cacheKey struct {
	channel bool
	id      string
}

var _ praise.Resolver = (*CachedResolver)(nil)

// NewCachedResolver wraps next with a cache of size entries.
func NewCachedResolver(next praise.Resolver, size int) (*CachedResolver, error) {
	if next == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, models.Identity](size)
	if err != nil {
		return nil, fmt.Errorf("create identity cache: %w", err)
	}
	return &CachedResolver{next: next, cache: cache}, nil
}

// ResolveUser returns a cached user or asks the wrapped resolver.
func (r *CachedResolver) ResolveUser(ctx context.Context, id string) (models.Identity, error) {
	return r.resolve(ctx, cacheKey{id: id}, r.next.ResolveUser)
}

// ResolveChannel returns a cached channel or asks the wrapped resolver.
func (r *CachedResolver) ResolveChannel(ctx context.Context, id string) (models.Identity, error) {
	return r.resolve(ctx, cacheKey{channel: true, id: id}, r.next.ResolveChannel)
}

// Len reports the number of cached identities.
func (r *CachedResolver) Len() int {
	return r.cache.Len()
}

// Purge empties the cache.
func (r *CachedResolver) Purge() {
	r.cache.Purge()
}

func (r *CachedResolver) resolve(ctx context.Context, key cacheKey, fetch func(context.Context, string) (models.Identity, error)) (models.Identity, error) {
	if ident, ok := r.cache.Get(key); ok {
		return ident, nil
	}

	ident, err := fetch(ctx, key.id)
	if err != nil {
		return models.Identity{}, err
	}
	r.cache.Add(key, ident)
	logger := logging.Component("identity")
	logger.Debug().
		Str("id", key.id).
		Bool("channel", key.channel).
		Str("name", ident.DisplayName).
		Msg("identity cached")
	return ident, nil
}
