package indexer

import (
	"sort"
	"strconv"
	"strings"
)

// cursor56 is the minimal interface the merge-intersection loop needs
// from any ascending id56 stream, satisfied by *LogCursor.
type cursor56 interface {
	Valid() bool
	Value() uint64
	Next()
}

// Query selects the transactions, within the closed height range
// [StartHeight, EndHeight], that touched every address in Addrs and
// every topic in Topics. At least one of Addrs/Topics must be non-empty,
// since an unconstrained query has no bound on the index streams it
// would have to merge.
type Query struct {
	Addrs       []uint64
	Topics      []uint64
	StartHeight uint32
	EndHeight   uint32
}

// cacheKey renders q as a stable string suitable for LRU lookup. Inputs
// are sorted first so logically identical queries in a different field
// order still share one cache entry.
func (q Query) cacheKey() string {
	addrs := append([]uint64(nil), q.Addrs...)
	topics := append([]uint64(nil), q.Topics...)
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })

	var b strings.Builder
	b.WriteString("h:")
	b.WriteString(strconv.FormatUint(uint64(q.StartHeight), 16))
	b.WriteByte('-')
	b.WriteString(strconv.FormatUint(uint64(q.EndHeight), 16))
	b.WriteString("|a:")
	for _, a := range addrs {
		b.WriteString(strconv.FormatUint(a, 16))
		b.WriteByte(',')
	}
	b.WriteString("|t:")
	for _, t := range topics {
		b.WriteString(strconv.FormatUint(t, 16))
		b.WriteByte(',')
	}
	return b.String()
}

// QueryTxOffsets returns, in ascending id56 order, the file offset of
// every transaction matching q. A cache hit (when caching is enabled) returns
// a copy of the cached slice so callers can't corrupt the cache entry.
func (ix *Indexer) QueryTxOffsets(q Query) []int64 {
	if len(q.Addrs) == 0 && len(q.Topics) == 0 {
		return nil
	}
	if ix.cache != nil {
		key := q.cacheKey()
		if hit, ok := ix.cache.Get(key); ok {
			return append([]int64(nil), hit...)
		}
		result := ix.queryTxOffsetsUncached(q)
		ix.cache.Add(key, result)
		return append([]int64(nil), result...)
	}
	return ix.queryTxOffsetsUncached(q)
}

// queryTxOffsetsUncached runs the k-way merge-intersection algorithm:
// every cursor's current id56 must agree before a match is
// emitted, and every call advances only the cursors sitting on the
// smallest id56 seen (the "pivot"), so no cursor is ever read twice for
// the same id56 and the whole scan is O(sum of list lengths).
func (ix *Indexer) queryTxOffsetsUncached(q Query) []int64 {
	cursors := make([]cursor56, 0, len(q.Addrs)+len(q.Topics))
	for _, a := range q.Addrs {
		cursors = append(cursors, ix.AddrIterator(a, q.StartHeight, q.EndHeight))
	}
	for _, t := range q.Topics {
		cursors = append(cursors, ix.TopicIterator(t, q.StartHeight, q.EndHeight))
	}

	var out []int64
	for {
		if !allValid(cursors) {
			break
		}
		pivot := smallestValue(cursors)
		if allEqual(cursors, pivot) {
			// A matched id56 with no tx-content entry yields -1 rather
			// than being dropped: the match itself is not in question.
			out = append(out, ix.OffsetByTxID(pivot))
			advanceAll(cursors)
			continue
		}
		advanceBelow(cursors, pivot)
	}
	return out
}

func allValid(cursors []cursor56) bool {
	for _, c := range cursors {
		if !c.Valid() {
			return false
		}
	}
	return true
}

func smallestValue(cursors []cursor56) uint64 {
	min := cursors[0].Value()
	for _, c := range cursors[1:] {
		if v := c.Value(); v < min {
			min = v
		}
	}
	return min
}

func allEqual(cursors []cursor56, v uint64) bool {
	for _, c := range cursors {
		if c.Value() != v {
			return false
		}
	}
	return true
}

func advanceAll(cursors []cursor56) {
	for _, c := range cursors {
		c.Next()
	}
}

// advanceBelow moves every cursor whose current value equals pivot (the
// smallest current value) one step forward. Cursors already past pivot
// are left untouched.
func advanceBelow(cursors []cursor56, pivot uint64) {
	for _, c := range cursors {
		if c.Value() == pivot {
			c.Next()
		}
	}
}
