package namequota

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/time/rate"

	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// Quota is a simple per-name rate limiter. It is used to keep
// diagnostics for repeatedly failing dependency lookups from
// flooding the log when a host retries the same name in a loop.
// Names are compared caselessly. Information is kept in an LRU
// cache of size maxEntries.
type Quota struct {
	eps   float32    // allowed events per second
	burst int        // maximum events per second (queue)
	mu    sync.Mutex // protects cache
	cache *lru.Cache
}

func NewQuota(eventsPerSecond float32, burst, maxEntries int) *Quota {
	return &Quota{
		eps:   eventsPerSecond,
		burst: burst,
		cache: lru.New(maxEntries),
	}
}

// Blocked reports whether the event for name exceeds its quota
// and should be dropped.
func (q *Quota) Blocked(name string) bool {
	key := sets.Fold(name)
	q.mu.Lock()
	var limiter *rate.Limiter
	if v, ok := q.cache.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Limit(q.eps), q.burst)
		q.cache.Add(key, limiter)
	}
	q.mu.Unlock()
	return !limiter.Allow()
}
