package pkginfo

import (
	"context"
	"time"

	"github.com/pasccom/qtcreator-deptree/pkg/cache"
	"github.com/pasccom/qtcreator-deptree/pkg/observability"
)

// Cached memoizes another provider's answers in a cache backend, so slow
// external queries are paid once across invocations.
type Cached struct {
	inner Provider
	store cache.Cache
	ttl   time.Duration
}

// NewCached wraps a provider with a cache. A zero ttl caches forever.
func NewCached(inner Provider, store cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, store: store, ttl: ttl}
}

func (c *Cached) Name() string { return "cached(" + c.inner.Name() + ")" }

// Lookup serves from the cache when possible. Cache failures degrade to a
// direct lookup; a failed inner lookup is never cached.
func (c *Cached) Lookup(ctx context.Context, req Request) (string, error) {
	key := cache.InfoKey(req.Kind.String(), req.Package)

	if data, ok, err := c.store.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "pkginfo")
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "pkginfo")

	text, err := c.inner.Lookup(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.store.Set(ctx, key, []byte(text), c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "pkginfo", len(text))
	}
	return text, nil
}
