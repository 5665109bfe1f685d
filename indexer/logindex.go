package indexer

import (
	"github.com/smartbch/MoeingDB/bigmap"
	"github.com/smartbch/MoeingDB/scalar"
)

// addToLogMap sets the log identified by (hash48, height) to exactly the
// given indices, replacing whatever magic value, if any, already sits
// there. A 1..3-element list is encoded inline and needs no block at
// height; a longer list must spill into the block's vector, so getVec
// (which creates the vector on demand) is only ever called in that case
// and only then does a missing block turn into a panic. Every index must
// fit in 24 bits; appendSpill stores it whole, while encodeInlineMagic
// keeps only its low 20 bits.
func addToLogMap(m *bigmap.ShardedMap[uint64, uint64], getVec func() *blockVector, hash48 uint64, height uint32, indices []uint32) {
	for _, idx := range indices {
		if err := scalar.CheckU24(idx); err != nil {
			panic(err)
		}
	}

	shard, low32 := scalar.SplitHash48(hash48)
	key := logKey(low32, height)

	if len(indices) <= 3 {
		encoded, err := encodeInlineMagic(indices)
		if err != nil {
			panic(err)
		}
		m.Insert(shard, key, encoded)
		return
	}

	vec := getVec()
	if vec == nil {
		panic("indexer: addToLogMap spill requires a block already indexed at height")
	}
	base := vec.appendSpill(indices)
	m.Insert(shard, key, uint64(tagSpill)<<61|base)
}

// eraseFromLogMap removes the entire log entry for (hash48, height). It
// is a no-op if no such entry exists. Space a spilled entry occupied in
// the block's vector is not reclaimed; it is released only when the
// block itself is erased (see DESIGN.md).
func eraseFromLogMap(m *bigmap.ShardedMap[uint64, uint64], hash48 uint64, height uint32) {
	shard, low32 := scalar.SplitHash48(hash48)
	m.Erase(shard, logKey(low32, height))
}

// AddAddrToLog records that the transactions at the given positions in
// the block at height involved address hash48, replacing any list
// already recorded for (hash48, height). Up to three indices need no
// block to be indexed at height yet; a fourth and beyond spills into
// that block's vector and does require one.
func (ix *Indexer) AddAddrToLog(hash48 uint64, height uint32, indices []uint32) {
	if err := scalar.CheckU48(hash48); err != nil {
		panic(err)
	}
	addToLogMap(ix.addrLog, func() *blockVector { return ix.getVectorAtHeight(height, true) }, hash48, height, indices)
	ix.invalidateCache()
}

// EraseAddrFromLog removes address hash48's entire log entry at height.
func (ix *Indexer) EraseAddrFromLog(hash48 uint64, height uint32) {
	eraseFromLogMap(ix.addrLog, hash48, height)
	ix.invalidateCache()
}

// AddTopicToLog records that the transactions at the given positions in
// the block at height carried topic hash48, replacing any list already
// recorded for (hash48, height). Up to three indices need no block to be
// indexed at height yet; a fourth and beyond spills into that block's
// vector and does require one.
func (ix *Indexer) AddTopicToLog(hash48 uint64, height uint32, indices []uint32) {
	if err := scalar.CheckU48(hash48); err != nil {
		panic(err)
	}
	addToLogMap(ix.topicLog, func() *blockVector { return ix.getVectorAtHeight(height, true) }, hash48, height, indices)
	ix.invalidateCache()
}

// EraseTopicFromLog removes topic hash48's entire log entry at height.
func (ix *Indexer) EraseTopicFromLog(hash48 uint64, height uint32) {
	eraseFromLogMap(ix.topicLog, hash48, height)
	ix.invalidateCache()
}
