// Package bigmap implements a sharded ordered map: an associative
// container split by a caller-chosen shard index into S independent
// ordered sub-maps, each supporting insert/erase/get/seek and range
// iteration. Its tree implementation is deliberately left free; no
// ordered-map or B-tree library appears anywhere in the source corpus
// this was built from, so each shard is a sorted slice of entries probed
// by binary search (see DESIGN.md). The map never locks internally:
// callers that mutate distinct shards concurrently are responsible for
// not touching the same shard from two goroutines.
package bigmap

import "sort"

// entry is one leaf record. Key and Value are plain Go integers here
// rather than packed bitfields, and each shard stores them as a single
// slice of these structs, not as parallel key and value slices, so Go's
// usual field alignment applies: a uint32 key paired with a uint64 or
// pointer value carries 4 bytes of padding per entry.
type entry[K ~uint32 | ~uint64, V any] struct {
	key   K
	value V
}

// ShardedMap is a sharded ordered map from K to V. K must be an integer
// wide enough to hold every key this map will ever see (uint32 for the
// 32-bit keys, uint64 for the wider ones).
type ShardedMap[K ~uint32 | ~uint64, V any] struct {
	shards [][]entry[K, V]
}

// New creates a ShardedMap with shardCount independent, empty shards.
func New[K ~uint32 | ~uint64, V any](shardCount int) *ShardedMap[K, V] {
	if shardCount <= 0 {
		shardCount = 1
	}
	return &ShardedMap[K, V]{shards: make([][]entry[K, V], shardCount)}
}

// ShardCount returns the number of shards this map was created with.
func (m *ShardedMap[K, V]) ShardCount() int {
	return len(m.shards)
}

func (m *ShardedMap[K, V]) search(shard int, key K) (idx int, found bool) {
	s := m.shards[shard]
	idx = sort.Search(len(s), func(i int) bool { return s[i].key >= key })
	found = idx < len(s) && s[idx].key == key
	return
}

// Insert upserts key -> value in the given shard.
func (m *ShardedMap[K, V]) Insert(shard int, key K, value V) {
	s := m.shards[shard]
	idx, found := m.search(shard, key)
	if found {
		s[idx].value = value
		return
	}
	s = append(s, entry[K, V]{})
	copy(s[idx+1:], s[idx:])
	s[idx] = entry[K, V]{key: key, value: value}
	m.shards[shard] = s
}

// Erase removes key from the given shard, if present. It is a no-op if
// the key is absent.
func (m *ShardedMap[K, V]) Erase(shard int, key K) {
	idx, found := m.search(shard, key)
	if !found {
		return
	}
	s := m.shards[shard]
	copy(s[idx:], s[idx+1:])
	m.shards[shard] = s[:len(s)-1]
}

// Get performs an exact-match lookup within the given shard.
func (m *ShardedMap[K, V]) Get(shard int, key K) (value V, found bool) {
	idx, found := m.search(shard, key)
	if !found {
		return value, false
	}
	return m.shards[shard][idx].value, true
}

// Len returns the number of entries stored in the given shard.
func (m *ShardedMap[K, V]) Len(shard int) int {
	return len(m.shards[shard])
}

// Seek returns a cursor positioned at the first key >= key within shard,
// plus whether that position is an exact match.
func (m *ShardedMap[K, V]) Seek(shard int, key K) (*Cursor[K, V], bool) {
	idx, found := m.search(shard, key)
	c := &Cursor[K, V]{
		m:        m,
		shard:    shard,
		idx:      idx,
		shardHi:  shard,
		hasUpper: false,
	}
	return c, found
}

// Iterator returns a forward cursor over the closed range
// [(shardLo,keyLo), (shardHi,keyHi)]. When shardLo == shardHi the range
// is confined to a single shard, the common case for callers; crossing
// shards is supported for generality.
func (m *ShardedMap[K, V]) Iterator(shardLo int, keyLo K, shardHi int, keyHi K) *Cursor[K, V] {
	idx, _ := m.search(shardLo, keyLo)
	c := &Cursor[K, V]{
		m:        m,
		shard:    shardLo,
		idx:      idx,
		shardHi:  shardHi,
		keyHi:    keyHi,
		hasUpper: true,
	}
	c.clampToUpper()
	return c
}

// Cursor walks a ShardedMap in ascending key order. Mutating the shard a
// cursor is positioned on invalidates that cursor; this package does not
// detect that misuse.
type Cursor[K ~uint32 | ~uint64, V any] struct {
	m        *ShardedMap[K, V]
	shard    int
	idx      int
	shardHi  int
	keyHi    K
	hasUpper bool
	done     bool
}

// Valid reports whether the cursor currently refers to an entry.
func (c *Cursor[K, V]) Valid() bool {
	if c.done {
		return false
	}
	return c.idx < len(c.m.shards[c.shard])
}

// Key returns the key at the cursor's current position.
func (c *Cursor[K, V]) Key() K {
	return c.m.shards[c.shard][c.idx].key
}

// Value returns the value at the cursor's current position.
func (c *Cursor[K, V]) Value() V {
	return c.m.shards[c.shard][c.idx].value
}

// Next advances the cursor to the next entry in ascending key order,
// crossing into the next shard when the current one is exhausted.
func (c *Cursor[K, V]) Next() {
	if c.done {
		return
	}
	c.idx++
	if c.idx >= len(c.m.shards[c.shard]) {
		if c.shard >= c.shardHi {
			c.done = true
			return
		}
		c.shard++
		c.idx = 0
	}
	c.clampToUpper()
}

func (c *Cursor[K, V]) clampToUpper() {
	if !c.hasUpper || c.done {
		return
	}
	for c.idx >= len(c.m.shards[c.shard]) {
		if c.shard >= c.shardHi {
			c.done = true
			return
		}
		c.shard++
		c.idx = 0
	}
	if c.shard == c.shardHi && c.Key() > c.keyHi {
		c.done = true
	}
}
