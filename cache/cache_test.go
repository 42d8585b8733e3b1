package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeParams struct {
	name string
}

type fakeHandle struct {
	id int
}

func TestTypedCacheGetOrCreateDedupesByHash(t *testing.T) {
	var creates int
	c := NewTypedCache(
		"fake",
		func(p fakeParams) uint64 { return NewHasher().WriteString(p.name).Sum64() },
		func(p fakeParams) (*fakeHandle, error) {
			creates++
			return &fakeHandle{id: creates}, nil
		},
		func(h *fakeHandle) error { return nil },
	)

	a, err := c.GetOrCreate(fakeParams{name: "layout-a"})
	require.NoError(t, err)
	b, err := c.GetOrCreate(fakeParams{name: "layout-a"})
	require.NoError(t, err)

	require.Same(t, a, b)
	require.Equal(t, 1, creates)

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
	require.Equal(t, 1, stats.Entries)
}

func TestTypedCacheConcurrentGetOrCreateCreatesOnce(t *testing.T) {
	var creates int
	var mu sync.Mutex
	c := NewTypedCache(
		"fake",
		func(p fakeParams) uint64 { return NewHasher().WriteString(p.name).Sum64() },
		func(p fakeParams) (*fakeHandle, error) {
			mu.Lock()
			creates++
			mu.Unlock()
			return &fakeHandle{id: 1}, nil
		},
		func(h *fakeHandle) error { return nil },
	)

	const n = 32
	results := make([]*fakeHandle, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			h, err := c.GetOrCreate(fakeParams{name: "shared"})
			require.NoError(t, err)
			results[i] = h
		}(i)
	}
	wg.Wait()

	for _, h := range results {
		require.Same(t, results[0], h)
	}
	require.Equal(t, 1, creates)
}

func TestTypedCacheCleanupDestroysAndClears(t *testing.T) {
	var destroyed []int
	c := NewTypedCache(
		"fake",
		func(p fakeParams) uint64 { return NewHasher().WriteString(p.name).Sum64() },
		func(p fakeParams) (*fakeHandle, error) { return &fakeHandle{id: 1}, nil },
		func(h *fakeHandle) error { destroyed = append(destroyed, h.id); return nil },
	)
	_, err := c.GetOrCreate(fakeParams{name: "x"})
	require.NoError(t, err)

	require.NoError(t, c.Cleanup())
	require.Len(t, destroyed, 1)
	require.Equal(t, 0, c.Stats().Entries)
}

func TestHasherStableAndFieldOrderSensitive(t *testing.T) {
	h1 := NewHasher().WriteString("a").WriteUint32(1).Sum64()
	h2 := NewHasher().WriteString("a").WriteUint32(1).Sum64()
	h3 := NewHasher().WriteUint32(1).WriteString("a").Sum64()

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}
