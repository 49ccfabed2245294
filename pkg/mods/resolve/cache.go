package resolve

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"go.lodestone.dev/lodestone/pkg/internal/cachutil"
	"go.lodestone.dev/lodestone/pkg/mods"
	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// DefaultCacheTTL is how long resolver results are kept.
// Misses expire too, so a binary dropped into a mod directory at
// runtime becomes resolvable without restarting the host.
const DefaultCacheTTL = 30 * time.Second

type result struct {
	path string
	ok   bool
}

// Cache memoizes Search results per requested name. Concurrent
// requests for the same name share a single search.
type Cache struct {
	registry *mods.Registry
	opts     Options
	cache    *ttlcache.Cache[string, result]
	loader   ttlcache.Loader[string, result]
}

// NewCache returns a caching resolver over registry.
// Searches run under ctx, which should outlive the cache.
func NewCache(ctx context.Context, registry *mods.Registry, opts Options, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache{
		registry: registry,
		opts:     opts,
		cache: ttlcache.New[string, result](
			ttlcache.WithTTL[string, result](ttl),
			ttlcache.WithDisableTouchOnHit[string, result](),
		),
	}
	c.loader = cachutil.Suppress[result](ttlcache.LoaderFunc[string, result](
		func(cc *ttlcache.Cache[string, result], key string) *ttlcache.Item[string, result] {
			path, ok := Search(ctx, c.registry, key, c.opts)
			return cc.Set(key, result{path: path, ok: ok}, ttlcache.DefaultTTL)
		},
	))
	return c
}

// Search resolves request like the package level Search, serving
// repeated requests from the cache.
func (c *Cache) Search(ctx context.Context, request string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	key := sets.Fold(SimpleName(request))
	if key == "" {
		return "", false
	}
	item := c.cache.Get(key, ttlcache.WithLoader[string, result](c.loader))
	if item == nil {
		return "", false
	}
	r := item.Value()
	return r.path, r.ok
}
