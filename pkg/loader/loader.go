// Package loader is the boundary between discovered mods and the
// host's loading runtime. It publishes payload paths, owns the event
// manager of the mod pipeline and registers the late-bound dependency
// resolver the host consults when it cannot satisfy a binary
// reference on its own.
package loader

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/dboslee/lru"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/robinbraemer/event"
	"go.uber.org/atomic"
	"golang.org/x/exp/maps"

	"go.lodestone.dev/lodestone/pkg/internal/namequota"
	"go.lodestone.dev/lodestone/pkg/internal/oncetrue"
	"go.lodestone.dev/lodestone/pkg/mods"
	"go.lodestone.dev/lodestone/pkg/mods/resolve"
)

// Resolver resolves a requested binary name to a file path.
// Absence is signaled by ok=false and is not an error.
type Resolver interface {
	Resolve(ctx context.Context, name string) (path string, ok bool)
}

// ResolverFunc implements Resolver using a function.
type ResolverFunc func(ctx context.Context, name string) (string, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (string, bool) {
	return f(ctx, name)
}

// Options configures a Loader.
type Options struct {
	// Registry is the mod registry to publish.
	// If nil, a new empty one is created.
	Registry *mods.Registry
	// EventMgr is the event manager to use.
	// If nil, a new one is created.
	EventMgr event.Manager
	// Resolve configures the binary search of the default resolver.
	Resolve resolve.Options
	// CacheTTL is how long resolver results are cached.
	// Defaults to resolve.DefaultCacheTTL.
	CacheTTL time.Duration
}

// listingCacheSize bounds the memoized payload directory listings.
const listingCacheSize = 64

// Loader wires the mod registry into a host process.
type Loader struct {
	reg   *mods.Registry
	event event.Manager
	id    string

	cache      *resolve.Cache
	activation *oncetrue.OnceWhenTrue
	attached   atomic.Bool

	plugins  *PluginQueue
	missLog  *namequota.Quota
	listings *listingCache
}

// New returns a Loader over the given registry.
// The dependency resolver hook is prepared but stays inactive until
// the first directory spec completes, see SpecCompleted.
func New(opts Options) *Loader {
	reg := opts.Registry
	if reg == nil {
		reg = mods.NewRegistry()
	}
	mgr := opts.EventMgr
	if mgr == nil {
		mgr = event.New()
	}
	l := &Loader{
		reg:        reg,
		event:      mgr,
		id:         uuid.New().String(),
		activation: oncetrue.NewOnceWhenTrue(),
		plugins:    newPluginQueue(),
		missLog:    namequota.NewQuota(0.2, 3, 256),
		listings:   newListingCache(listingCacheSize),
	}
	l.cache = resolve.NewCache(context.Background(), reg, opts.Resolve, opts.CacheTTL)
	l.activation.DoWhenTrue(func() {
		l.RegisterResolver(ResolverFunc(l.cache.Search))
	})
	return l
}

// Event returns the event manager of the mod pipeline.
func (l *Loader) Event() event.Manager { return l.event }

// Registry returns the mod registry.
func (l *Loader) Registry() *mods.Registry { return l.reg }

// InstanceID identifies this loader instance, for diagnostics.
func (l *Loader) InstanceID() string { return l.id }

// SpecCompleted marks one directory spec as fully processed and
// fires ScanCompletedEvent. The first call activates the dependency
// resolver hook; further calls have no additional effect on it.
func (l *Loader) SpecCompleted(ctx context.Context, e *ScanCompletedEvent) {
	l.activation.SetTrue()
	if e != nil {
		l.event.Fire(e)
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("directory spec completed",
		"section", sectionOf(e), "hookActive", l.activation.Done())
}

func sectionOf(e *ScanCompletedEvent) string {
	if e == nil {
		return ""
	}
	return e.Section
}

// HookActive reports whether the dependency resolver hook has been
// registered.
func (l *Loader) HookActive() bool { return l.activation.Done() }

// RegisterResolver subscribes r to dependency resolve requests and
// returns its unsubscribe func. Resolvers registered earlier win.
func (l *Loader) RegisterResolver(r Resolver) func() {
	return event.Subscribe(l.event, 0, func(e *ResolveRequestEvent) {
		if e.Resolved() {
			return
		}
		if path, ok := r.Resolve(context.Background(), e.Name); ok {
			e.Resolve(path)
		}
	})
}

// ResolveDependency asks all registered resolvers for the binary
// satisfying name. Absence is not an error; it is reported once in a
// while per name to keep host retry loops out of the log.
func (l *Loader) ResolveDependency(ctx context.Context, name string) (string, bool) {
	e := &ResolveRequestEvent{Name: name}
	l.event.Fire(e)
	path, ok := e.Result()
	if !ok && !l.missLog.Blocked(name) {
		logr.FromContextOrDiscard(ctx).WithName("loader").Info(
			"dependency not provided by any mod", "name", name)
	}
	return path, ok
}

// Attach freezes the registry and publishes it to the host: plugin
// payload directories are queued for the host's load phase and
// ModsAttachedEvent is fired. Attach is idempotent.
func (l *Loader) Attach(ctx context.Context) {
	if !l.attached.CompareAndSwap(false, true) {
		return
	}
	l.reg.Freeze()

	var queued int
	for path := range l.reg.PluginPaths() {
		l.plugins.push(path)
		queued++
	}
	l.event.Fire(&ModsAttachedEvent{Registry: l.reg})

	log := logr.FromContextOrDiscard(ctx).WithName("loader")
	if dups := l.reg.Duplicates(); len(dups) != 0 {
		log.V(1).Info("duplicate mod names registered, first registration wins lookups",
			"names", maps.Keys(dups))
	}
	log.Info("mods attached to host",
		"instance", l.id, "mods", l.reg.Len(), "pluginDirs", queued,
		"hookActive", l.HookActive())
}

// Attached reports whether Attach has run.
func (l *Loader) Attached() bool { return l.attached.Load() }

// Plugins returns the queue of plugin payload directories.
func (l *Loader) Plugins() *PluginQueue { return l.plugins }

// PatcherPaths returns the patcher payload directories in
// registration order, for the host's early load phase.
func (l *Loader) PatcherPaths() []string {
	var out []string
	for path := range l.reg.PatcherPaths() {
		out = append(out, path)
	}
	return out
}

// PayloadFiles lists the file names directly inside a payload
// directory. Listings are memoized; the host asks for the same
// directories repeatedly during its load phases.
func (l *Loader) PayloadFiles(ctx context.Context, dir string) []string {
	if files, ok := l.listings.get(dir); ok {
		return files
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logr.FromContextOrDiscard(ctx).V(1).Info("payload directory unreadable",
			"dir", dir, "error", err)
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	l.listings.put(dir, files)
	return files
}

// listingCache memoizes payload directory listings.
type listingCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, []string]
}

func newListingCache(capacity int) *listingCache {
	return &listingCache{cache: lru.New[string, []string](lru.WithCapacity(capacity))}
}

func (c *listingCache) get(dir string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(dir)
}

func (c *listingCache) put(dir string, files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Set(dir, files)
}
