package places

import (
	"context"
	"fmt"
	"strings"

	"tripweaver/internal/domain"
)

// CachedProvider is a cache-aside decorator around a PlaceSearchProvider.
// Caching provider responses lives out here with the collaborators; the
// pipeline core itself never caches across invocations.
type CachedProvider struct {
	next   domain.PlaceSearchProvider
	cache  domain.Cache
	ttlSec int
}

func NewCached(next domain.PlaceSearchProvider, cache domain.Cache, ttlSec int) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttlSec: ttlSec}
}

func (c *CachedProvider) Search(ctx context.Context, q domain.PlaceQuery) ([]domain.RawPlace, error) {
	key := cacheKey(q)
	var cached []domain.RawPlace
	if ok, _ := c.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, out, c.ttlSec)
	return out, nil
}

func cacheKey(q domain.PlaceQuery) string {
	return fmt.Sprintf("places:%s:%s:%d",
		q.Category, strings.ToLower(strings.TrimSpace(q.Query)), q.MaxResults)
}
