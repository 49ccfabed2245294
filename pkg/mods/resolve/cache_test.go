package resolve

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.lodestone.dev/lodestone/pkg/mods"
)

func TestCacheServesHitsAfterFileRemoval(t *testing.T) {
	reg := mods.NewRegistry()
	dir := modDir(t, reg, "FooMod", "Foo.dll")

	c := NewCache(context.Background(), reg, Options{}, time.Minute)

	path, ok := c.Search(context.Background(), "Foo")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "Foo.dll"), path)

	// The cached result survives the file disappearing.
	require.NoError(t, os.Remove(path))
	cached, ok := c.Search(context.Background(), "Foo")
	require.True(t, ok)
	require.Equal(t, path, cached)
}

func TestCacheMissExpires(t *testing.T) {
	reg := mods.NewRegistry()
	dir := filepath.Join(t.TempDir(), "FooMod")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, reg.Add(mods.NewDescriptor(dir)))

	c := NewCache(context.Background(), reg, Options{}, 30*time.Millisecond)

	_, ok := c.Search(context.Background(), "Late")
	require.False(t, ok)

	// Binary appears after the negative result was cached.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Late.dll"), []byte("bin"), 0644))

	_, ok = c.Search(context.Background(), "Late")
	require.False(t, ok, "negative result should still be cached")

	require.Eventually(t, func() bool {
		_, ok := c.Search(context.Background(), "Late")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCacheCaselessKey(t *testing.T) {
	reg := mods.NewRegistry()
	modDir(t, reg, "FooMod", "Foo.dll")

	c := NewCache(context.Background(), reg, Options{}, time.Minute)

	_, ok := c.Search(context.Background(), "FOO, Version=1")
	require.True(t, ok)
	_, ok = c.Search(context.Background(), "foo")
	require.True(t, ok)
}

func TestCacheConcurrentRequests(t *testing.T) {
	reg := mods.NewRegistry()
	modDir(t, reg, "FooMod", "Foo.dll")
	reg.Freeze()

	c := NewCache(context.Background(), reg, Options{}, time.Minute)

	const n = 16
	results := make([]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = c.Search(context.Background(), "Foo")
		}(i)
	}
	wg.Wait()
	for i, ok := range results {
		require.True(t, ok, "request %d", i)
	}
}

func TestCacheEmptyRequest(t *testing.T) {
	c := NewCache(context.Background(), mods.NewRegistry(), Options{}, time.Minute)
	_, ok := c.Search(context.Background(), "")
	require.False(t, ok)
	_, ok = c.Search(context.Background(), ",")
	require.False(t, ok)
}
