package nameparser

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_EvictsOldestInsertion(t *testing.T) {
	cache := NewCache(2)

	cache.Add("a", newResult("a"))
	cache.Add("b", newResult("b"))
	assert.Equal(t, 2, cache.Len())

	cache.Add("c", newResult("c"))
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	_, ok = cache.Get("b")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, cache.Keys())
}

func TestCache_EvictsOnePerInsertBeyondCapacity(t *testing.T) {
	cache := NewCache(3)
	for i := range 10 {
		name := fmt.Sprintf("name-%d", i)
		cache.Add(name, newResult(name))
		assert.Equal(t, min(i+1, 3), cache.Len())
	}
	assert.Equal(t, []string{"name-7", "name-8", "name-9"}, cache.Keys())
}

func TestCache_ReinsertKeepsPosition(t *testing.T) {
	cache := NewCache(2)
	cache.Add("a", newResult("a"))
	cache.Add("b", newResult("b"))

	updated := newResult("a")
	updated.SeriesName = "Updated"
	cache.Add("a", updated)
	assert.Equal(t, 2, cache.Len())

	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Updated", got.SeriesName)

	cache.Add("c", newResult("c"))
	_, ok = cache.Get("a")
	assert.False(t, ok, "re-inserted entry keeps its original eviction order")
}

func TestCache_ReturnsCopies(t *testing.T) {
	cache := NewCache(2)
	r := newResult("a")
	r.EpisodeNumbers = []int{1}
	cache.Add("a", r)

	r.EpisodeNumbers[0] = 99

	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{1}, got.EpisodeNumbers)

	got.EpisodeNumbers[0] = 42
	again, _ := cache.Get("a")
	assert.Equal(t, []int{1}, again.EpisodeNumbers)
}

func TestCache_DefaultSizeAndClear(t *testing.T) {
	cache := NewCache(0)
	for i := range DefaultCacheSize + 5 {
		name := fmt.Sprintf("name-%d", i)
		cache.Add(name, newResult(name))
	}
	assert.Equal(t, DefaultCacheSize, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("name-150")
	assert.False(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache(10)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range 100 {
				name := fmt.Sprintf("w%d-%d", worker, j)
				cache.Add(name, newResult(name))
				cache.Get(name)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, cache.Len())
}
