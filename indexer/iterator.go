package indexer

import "github.com/smartbch/MoeingDB/bigmap"

// LogCursor walks the ascending id56 stream a single address or topic log
// produces: one log entry per height may expand into several id56 values
// when the block recorded more than one matching transaction there.
// Mutating the map or vector it reads from invalidates the cursor, same
// as the bigmap.Cursor it wraps.
type LogCursor struct {
	inner *bigmap.Cursor[uint64, uint64]
	vec   func(height uint32) *blockVector

	members []uint32
	height  uint32
	pos     int
	done    bool
}

// newLogCursor scopes a cursor to every entry recorded for hash48 within
// the closed height range [startHeight, endHeight] (shard+low32 together
// identify a hash48 uniquely).
func newLogCursor(m *bigmap.ShardedMap[uint64, uint64], vec func(uint32) *blockVector, hash48 uint64, startHeight, endHeight uint32) *LogCursor {
	shard, low32 := splitHash48ForIter(hash48)
	inner := m.Iterator(shard, logKey(low32, startHeight), shard, logKey(low32, endHeight))
	c := &LogCursor{inner: inner, vec: vec}
	c.loadEntry()
	return c
}

// splitHash48ForIter mirrors scalar.SplitHash48 without importing scalar
// from this file's signature, keeping the import list focused.
func splitHash48ForIter(hash48 uint64) (shard int, low32 uint32) {
	return int(hash48 >> 32), uint32(hash48)
}

func (c *LogCursor) loadEntry() {
	for {
		if !c.inner.Valid() {
			c.done = true
			c.members = nil
			return
		}
		key := c.inner.Key()
		magic := c.inner.Value()
		height := heightFromLogKey(key)

		tag := magic >> 61
		var members []uint32
		if tag == tagSpill {
			vec := c.vec(height)
			if vec == nil {
				c.inner.Next()
				continue
			}
			members = vec.readSpill(spillBase(magic))
		} else {
			members = decodeInlineMagic(magic)
		}
		if len(members) == 0 {
			c.inner.Next()
			continue
		}
		c.members = members
		c.height = height
		c.pos = 0
		return
	}
}

// Valid reports whether the cursor currently refers to an id56.
func (c *LogCursor) Valid() bool {
	return !c.done
}

// Value returns the id56 the cursor is currently positioned on.
func (c *LogCursor) Value() uint64 {
	return txID56(c.height, c.members[c.pos])
}

// Next advances to the next id56 in ascending order.
func (c *LogCursor) Next() {
	if c.done {
		return
	}
	c.pos++
	if c.pos < len(c.members) {
		return
	}
	c.inner.Next()
	c.loadEntry()
}

// AddrIterator returns a LogCursor over every transaction id56 that
// touched address hash48 within [startHeight, endHeight], in ascending
// order.
func (ix *Indexer) AddrIterator(hash48 uint64, startHeight, endHeight uint32) *LogCursor {
	return newLogCursor(ix.addrLog, func(h uint32) *blockVector { return ix.getVectorAtHeight(h, false) }, hash48, startHeight, endHeight)
}

// TopicIterator returns a LogCursor over every transaction id56 that
// carried topic hash48 within [startHeight, endHeight], in ascending
// order.
func (ix *Indexer) TopicIterator(hash48 uint64, startHeight, endHeight uint32) *LogCursor {
	return newLogCursor(ix.topicLog, func(h uint32) *blockVector { return ix.getVectorAtHeight(h, false) }, hash48, startHeight, endHeight)
}
