package layout

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

// Cache memoizes LineLayouts by buffer line number, validated against a
// hash of the line's current text, with LRU eviction above maxSize.
type Cache struct {
	mu        sync.RWMutex
	entries   map[uint32]*cacheEntry
	engine    *Engine
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	layout     *LineLayout
	lineHash   uint64
	lastAccess time.Time
}

// NewCache creates a layout cache backed by engine. maxSize is the
// maximum number of lines to retain (0 = unbounded).
func NewCache(engine *Engine, maxSize int) *Cache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Cache{
		entries: make(map[uint32]*cacheEntry),
		engine:  engine,
		maxSize: maxSize,
	}
}

// Get returns the layout for line, computing and caching it if text has
// changed since the last call (or it was never laid out).
func (c *Cache) Get(line uint32, text string) *LineLayout {
	hash := hashLine(text)

	if layout, ok := c.lookup(line, hash); ok {
		c.hits.Add(1)
		return layout
	}
	c.misses.Add(1)

	layout := c.engine.Layout(text, line)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[line] = &cacheEntry{layout: layout, lineHash: hash, lastAccess: time.Now()}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evictLocked()
	}
	return layout
}

// GetIfCached returns the cached layout for line if present and valid,
// or nil otherwise. It never computes a layout.
func (c *Cache) GetIfCached(line uint32, text string) *LineLayout {
	layout, ok := c.lookup(line, hashLine(text))
	if !ok {
		return nil
	}
	return layout
}

func (c *Cache) lookup(line uint32, hash uint64) (*LineLayout, bool) {
	c.mu.RLock()
	entry, ok := c.entries[line]
	valid := ok && entry.lineHash == hash
	c.mu.RUnlock()
	if !valid {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok = c.entries[line]
	if !ok || entry.lineHash != hash {
		return nil, false
	}
	entry.lastAccess = time.Now()
	return entry.layout, true
}

// Invalidate drops the cached layout for line, if any.
func (c *Cache) Invalidate(line uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, line)
}

// InvalidateRange drops cached layouts for [startLine, endLine], inclusive.
func (c *Cache) InvalidateRange(startLine, endLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if startLine > endLine {
		return
	}
	for line := startLine; ; line++ {
		delete(c.entries, line)
		if line == endLine || line == ^uint32(0) {
			break
		}
	}
}

// InvalidateFrom drops cached layouts for every line >= startLine, for
// use after an edit inserts or deletes whole lines and everything below
// the edit shifts.
func (c *Cache) InvalidateFrom(startLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line >= startLine {
			delete(c.entries, line)
		}
	}
}

// InvalidateAll clears the entire cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]*cacheEntry)
}

// ShiftLines renumbers every cached entry at or after fromLine by delta,
// for use after a line insertion (delta > 0) or deletion (delta < 0).
func (c *Cache) ShiftLines(fromLine uint32, delta int) {
	if delta == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	moved := make(map[uint32]*cacheEntry)
	for line, entry := range c.entries {
		if line < fromLine {
			continue
		}
		delete(c.entries, line)
		newLine := int64(line) + int64(delta)
		if newLine < 0 {
			continue
		}
		entry.layout.BufferLine = uint32(newLine)
		moved[uint32(newLine)] = entry
	}
	for line, entry := range moved {
		c.entries[line] = entry
	}
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache hit/miss/eviction counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// ResetStats zeroes the cache's hit/miss/eviction counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Engine returns the cache's layout engine.
func (c *Cache) Engine() *Engine { return c.engine }

// SetEngine replaces the layout engine (e.g. after a tab-width change)
// and invalidates every cached entry.
func (c *Cache) SetEngine(engine *Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.entries = make(map[uint32]*cacheEntry)
}

// evictLocked removes least-recently-used entries until at maxSize.
// Caller must hold c.mu.
func (c *Cache) evictLocked() {
	if c.maxSize <= 0 || len(c.entries) <= c.maxSize {
		return
	}

	type lineTime struct {
		line uint32
		at   time.Time
	}
	ordered := make([]lineTime, 0, len(c.entries))
	for line, entry := range c.entries {
		ordered = append(ordered, lineTime{line, entry.lastAccess})
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].at.Before(ordered[j-1].at); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	toRemove := len(ordered) - c.maxSize
	for i := 0; i < toRemove; i++ {
		delete(c.entries, ordered[i].line)
	}
	c.evictions.Add(uint64(toRemove))
}

// hashLine hashes line content with FNV-1a, mixing in the length first
// to reduce collisions between differently-sized lines.
func hashLine(s string) uint64 {
	h := fnv.New64a()
	length := uint64(len(s))
	h.Write([]byte{
		byte(length), byte(length >> 8), byte(length >> 16), byte(length >> 24),
		byte(length >> 32), byte(length >> 40), byte(length >> 48), byte(length >> 56),
	})
	h.Write([]byte(s))
	return h.Sum64()
}
