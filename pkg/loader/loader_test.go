package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robinbraemer/event"
	"github.com/stretchr/testify/require"

	"go.lodestone.dev/lodestone/pkg/mods"
)

// buildMod creates a mod directory with a plugins payload holding
// the given binaries and registers it.
func buildMod(t *testing.T, reg *mods.Registry, name string, binaries ...string) *mods.Descriptor {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	plugins := filepath.Join(dir, "plugins")
	require.NoError(t, os.MkdirAll(plugins, 0755))
	for _, bin := range binaries {
		require.NoError(t, os.WriteFile(filepath.Join(plugins, bin), []byte("bin"), 0644))
	}
	d := mods.NewDescriptor(dir)
	d.PluginsDir = plugins
	require.NoError(t, reg.Add(d))
	return d
}

func TestHookActivatesOnFirstSpec(t *testing.T) {
	l := New(Options{})
	require.False(t, l.HookActive())

	l.SpecCompleted(context.Background(), &ScanCompletedEvent{Section: "Mods"})
	require.True(t, l.HookActive())

	// Further specs do not add more hook subscriptions.
	l.SpecCompleted(context.Background(), &ScanCompletedEvent{Section: "ModFolder_A"})
	require.True(t, l.HookActive())
}

func TestResolveDependencyThroughHook(t *testing.T) {
	reg := mods.NewRegistry()
	buildMod(t, reg, "FooMod", "Foo.Bar.dll")

	l := New(Options{Registry: reg})
	l.SpecCompleted(context.Background(), nil)
	l.Attach(context.Background())

	path, ok := l.ResolveDependency(context.Background(), "Foo.Bar, Version=1.0.0")
	require.True(t, ok)
	require.True(t, filepath.IsAbs(path))
	require.Equal(t, "Foo.Bar.dll", filepath.Base(path))
}

func TestResolveDependencyMissIsNotAnError(t *testing.T) {
	l := New(Options{})
	l.SpecCompleted(context.Background(), nil)

	path, ok := l.ResolveDependency(context.Background(), "Missing.Assembly")
	require.False(t, ok)
	require.Empty(t, path)

	// Repeated misses stay quiet and still return cleanly.
	for i := 0; i < 10; i++ {
		_, ok = l.ResolveDependency(context.Background(), "Missing.Assembly")
		require.False(t, ok)
	}
}

func TestResolveWithoutActivationFindsNothing(t *testing.T) {
	reg := mods.NewRegistry()
	buildMod(t, reg, "FooMod", "Foo.dll")

	l := New(Options{Registry: reg})
	// No spec completed, hook not active.
	_, ok := l.ResolveDependency(context.Background(), "Foo")
	require.False(t, ok)
}

func TestFirstRegisteredResolverWins(t *testing.T) {
	l := New(Options{})

	unsubscribe := l.RegisterResolver(ResolverFunc(func(ctx context.Context, name string) (string, bool) {
		return "/first/" + name, true
	}))
	defer unsubscribe()
	defer l.RegisterResolver(ResolverFunc(func(ctx context.Context, name string) (string, bool) {
		return "/second/" + name, true
	}))()

	path, ok := l.ResolveDependency(context.Background(), "X")
	require.True(t, ok)
	require.Equal(t, "/first/X", path)
}

func TestAttachFreezesAndQueuesPlugins(t *testing.T) {
	reg := mods.NewRegistry()
	a := buildMod(t, reg, "A", "A.dll")
	b := buildMod(t, reg, "B", "B.dll")

	var attached *ModsAttachedEvent
	mgr := event.New()
	event.Subscribe(mgr, 0, func(e *ModsAttachedEvent) { attached = e })

	l := New(Options{Registry: reg, EventMgr: mgr})
	require.False(t, l.Attached())

	l.Attach(context.Background())
	require.True(t, l.Attached())
	require.True(t, reg.Frozen())
	require.NotNil(t, attached)
	require.Same(t, reg, attached.Registry)

	require.Equal(t, 2, l.Plugins().Backlog())
	first, ok := l.Plugins().Next()
	require.True(t, ok)
	require.Equal(t, a.PluginsDir, first)
	second, ok := l.Plugins().Next()
	require.True(t, ok)
	require.Equal(t, b.PluginsDir, second)
	_, ok = l.Plugins().Next()
	require.False(t, ok)

	// Attach is idempotent: no double queueing.
	l.Attach(context.Background())
	require.Zero(t, l.Plugins().Backlog())
}

func TestPluginQueueDrain(t *testing.T) {
	q := newPluginQueue()
	q.push("/a")
	q.push("/b")

	var got []string
	q.Drain(func(p string) { got = append(got, p) })
	require.Equal(t, []string{"/a", "/b"}, got)
	require.Zero(t, q.Backlog())
}

func TestPatcherPaths(t *testing.T) {
	reg := mods.NewRegistry()
	d := mods.NewDescriptor(filepath.Join(t.TempDir(), "P"))
	d.PatchersDir = filepath.Join(d.Dir, "patchers")
	require.NoError(t, reg.Add(d))
	require.NoError(t, reg.Add(mods.NewDescriptor(filepath.Join(t.TempDir(), "NoPayload"))))

	l := New(Options{Registry: reg})
	require.Equal(t, []string{d.PatchersDir}, l.PatcherPaths())
}

func TestPayloadFilesMemoized(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "One.dll"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))

	l := New(Options{})
	files := l.PayloadFiles(context.Background(), dir)
	require.Equal(t, []string{"One.dll"}, files)

	// Listing is served from the cache even after the dir changes.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Two.dll"), []byte("x"), 0644))
	require.Equal(t, []string{"One.dll"}, l.PayloadFiles(context.Background(), dir))

	require.Nil(t, l.PayloadFiles(context.Background(), filepath.Join(dir, "missing")))
}

func TestScanCompletedEventFired(t *testing.T) {
	mgr := event.New()
	var fired []*ScanCompletedEvent
	event.Subscribe(mgr, 0, func(e *ScanCompletedEvent) { fired = append(fired, e) })

	l := New(Options{EventMgr: mgr})
	l.SpecCompleted(context.Background(), &ScanCompletedEvent{Section: "Mods", Registered: 2, Duration: time.Millisecond})
	l.SpecCompleted(context.Background(), nil)

	require.Len(t, fired, 1)
	require.Equal(t, "Mods", fired[0].Section)
}

func TestInstanceID(t *testing.T) {
	a, b := New(Options{}), New(Options{})
	require.NotEmpty(t, a.InstanceID())
	require.NotEqual(t, a.InstanceID(), b.InstanceID())
}

func TestResolveRequestEventFirstWins(t *testing.T) {
	e := &ResolveRequestEvent{Name: "X"}
	require.False(t, e.Resolved())
	require.False(t, e.Resolve(""))
	require.True(t, e.Resolve("/a"))
	require.False(t, e.Resolve("/b"))

	path, ok := e.Result()
	require.True(t, ok)
	require.Equal(t, "/a", path)
}
