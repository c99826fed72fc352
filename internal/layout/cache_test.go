package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheGetComputesOnMissAndHitsOnRepeat(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	l1 := c.Get(0, "hello")
	require.Equal(t, uint64(0), c.Stats().Hits)
	require.Equal(t, uint64(1), c.Stats().Misses)

	l2 := c.Get(0, "hello")
	require.Same(t, l1, l2)
	require.Equal(t, uint64(1), c.Stats().Hits)
}

func TestCacheGetRecomputesWhenTextChanges(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	l1 := c.Get(0, "hello")
	l2 := c.Get(0, "goodbye")
	require.NotSame(t, l1, l2)
	require.Equal(t, uint64(2), c.Stats().Misses)
}

func TestGetIfCachedReturnsNilWithoutComputing(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	require.Nil(t, c.GetIfCached(0, "hello"))
	require.Equal(t, 0, c.Size())
}

func TestInvalidateDropsEntry(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	c.Get(0, "hello")
	c.Invalidate(0)
	require.Nil(t, c.GetIfCached(0, "hello"))
}

func TestInvalidateRangeDropsInclusiveRange(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	for i := uint32(0); i < 5; i++ {
		c.Get(i, "line")
	}
	c.InvalidateRange(1, 3)
	require.NotNil(t, c.GetIfCached(0, "line"))
	require.Nil(t, c.GetIfCached(1, "line"))
	require.Nil(t, c.GetIfCached(2, "line"))
	require.Nil(t, c.GetIfCached(3, "line"))
	require.NotNil(t, c.GetIfCached(4, "line"))
}

func TestInvalidateFromDropsTailLines(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	for i := uint32(0); i < 5; i++ {
		c.Get(i, "line")
	}
	c.InvalidateFrom(2)
	require.NotNil(t, c.GetIfCached(1, "line"))
	require.Nil(t, c.GetIfCached(2, "line"))
	require.Nil(t, c.GetIfCached(4, "line"))
}

func TestShiftLinesRenumbersEntries(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	c.Get(5, "five")
	c.ShiftLines(5, 2)
	require.Nil(t, c.GetIfCached(5, "five"))
	l := c.GetIfCached(7, "five")
	require.NotNil(t, l)
	require.Equal(t, uint32(7), l.BufferLine)
}

func TestEvictionRespectsMaxSize(t *testing.T) {
	c := NewCache(NewEngine(4), 2)
	c.Get(0, "a")
	c.Get(1, "b")
	c.Get(2, "c")
	require.LessOrEqual(t, c.Size(), 2)
	require.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestInvalidateAllClearsCache(t *testing.T) {
	c := NewCache(NewEngine(4), 0)
	c.Get(0, "a")
	c.Get(1, "b")
	c.InvalidateAll()
	require.Equal(t, 0, c.Size())
}
