package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/football-query/internal/domain/query"
)

// ResponseCache stores transformed query results keyed by the descriptor's
// canonical key. Values must be treated as read-only by callers.
type ResponseCache struct {
	store *Store
}

func NewResponseCache(ttl time.Duration, opts ...Option) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{store: NewStore(ttl, opts...)}
}

func (c *ResponseCache) Get(ctx context.Context, d query.Descriptor) (any, bool) {
	return c.store.Get(ctx, d.CacheKey())
}

func (c *ResponseCache) Set(ctx context.Context, d query.Descriptor, value any) {
	c.store.Set(ctx, d.CacheKey(), value)
}

// Invalidate drops the entry for d.
func (c *ResponseCache) Invalidate(ctx context.Context, d query.Descriptor) {
	c.store.Delete(ctx, d.CacheKey())
}

func (c *ResponseCache) Clear() {
	c.store.Clear()
}

func (c *ResponseCache) Len() int {
	return c.store.Len()
}

func (c *ResponseCache) GetOrLoad(ctx context.Context, d query.Descriptor, loader func(context.Context) (any, error)) (any, error) {
	return c.store.GetOrLoad(ctx, d.CacheKey(), loader)
}

func (c *ResponseCache) StartJanitor(ctx context.Context, interval time.Duration) {
	c.store.StartJanitor(ctx, interval)
}
