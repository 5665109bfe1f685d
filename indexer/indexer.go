// Package indexer implements the in-memory indexing core of a blockchain
// archive: constant-time lookups from block height or hash48 to a file
// offset, from a transaction id or hash48 to a file offset, and a
// merge-intersection query engine over per-block address/topic logs.
package indexer

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/smartbch/MoeingDB/bigmap"
	"github.com/smartbch/MoeingDB/config"
	"github.com/smartbch/MoeingDB/logs"
	"github.com/smartbch/MoeingDB/scalar"
)

// Indexer is the single owner of every sharded map and per-block vector
// it indexes. It must never be copied; always pass *Indexer, never
// Indexer.
type Indexer struct {
	cfg config.Config
	log *logs.Logger

	blockContent *bigmap.ShardedMap[uint64, *blockVector]
	blockHash    *bigmap.ShardedMap[uint32, uint32]
	txID         *bigmap.ShardedMap[uint64, uint64]
	txHash       *bigmap.ShardedMap[uint32, uint64]
	addrLog      *bigmap.ShardedMap[uint64, uint64]
	topicLog     *bigmap.ShardedMap[uint64, uint64]

	// indexedHeights mirrors the set of heights currently present in
	// blockContent, for O(1) cardinality/membership diagnostics without
	// walking every shard (grounded on the MinerIndexManager bitmap
	// mirror pattern, see DESIGN.md).
	indexedHeights *roaring.Bitmap

	// cache memoizes QueryTxOffsets results; nil when config.Cache.Size
	// is zero. Any mutating call invalidates it wholesale.
	cache *lru.Cache[string, []int64]
}

// New creates an empty Indexer from the given configuration.
func New(cfg config.Config) (*Indexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ix := &Indexer{
		cfg:            cfg,
		log:            logs.New(cfg.LogView.Prefix),
		blockContent:   bigmap.New[uint64, *blockVector](cfg.Shards.BlockContent),
		blockHash:      bigmap.New[uint32, uint32](cfg.Shards.BlockHash),
		txID:           bigmap.New[uint64, uint64](cfg.Shards.TxID),
		txHash:         bigmap.New[uint32, uint64](cfg.Shards.TxHash),
		addrLog:        bigmap.New[uint64, uint64](cfg.Shards.AddrLog),
		topicLog:       bigmap.New[uint64, uint64](cfg.Shards.TopicLog),
		indexedHeights: roaring.New(),
	}
	ix.log.SetLevel(cfg.LogView.Level)
	if cfg.Cache.Size > 0 {
		c, err := lru.New[string, []int64](cfg.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("indexer: creating query cache: %w", err)
		}
		ix.cache = c
	}
	return ix, nil
}

// NewDefault creates an Indexer using config.DefaultConfig().
func NewDefault() *Indexer {
	ix, err := New(config.DefaultConfig())
	if err != nil {
		panic(err) // DefaultConfig is always valid
	}
	return ix
}

func (ix *Indexer) invalidateCache() {
	if ix.cache != nil {
		ix.cache.Purge()
	}
}

// entryAtHeight locates the block content entry for height, confirming
// the high 24 bits of the stored key match height.
func (ix *Indexer) entryAtHeight(height uint32) (key uint64, vec *blockVector, ok bool) {
	shard := scalar.HeightShard(height)
	c, _ := ix.blockContent.Seek(shard, ht3off5(height, 0))
	if !c.Valid() || !heightMatches(c.Key(), height) {
		return 0, nil, false
	}
	return c.Key(), c.Value(), true
}

// getVectorAtHeight returns the bits24 vector owned by height's block
// content entry, creating one on demand when createIfNil is set and the
// block exists but has no vector yet. It returns nil if no block is
// indexed at height.
func (ix *Indexer) getVectorAtHeight(height uint32, createIfNil bool) *blockVector {
	key, vec, ok := ix.entryAtHeight(height)
	if !ok {
		return nil
	}
	if vec == nil && createIfNil {
		vec = &blockVector{}
		ix.blockContent.Insert(scalar.HeightShard(height), key, vec)
	}
	return vec
}

// AddBlock records a new block's height, hash48 and file offset.
// It returns false, leaving state unchanged, if hash48 is already in use
// by another block.
func (ix *Indexer) AddBlock(height uint32, hash48 uint64, offset40 int64) bool {
	if err := scalar.CheckU48(hash48); err != nil {
		panic(err)
	}
	offBits, err := scalar.EncodeOffset40(offset40)
	if err != nil {
		panic(err)
	}

	if prev := ix.getVectorAtHeight(height-1, false); prev != nil {
		prev.shrinkToFit()
	}

	shard, low32 := scalar.SplitHash48(hash48)
	if _, ok := ix.blockHash.Get(shard, low32); ok {
		ix.log.Debugf("add_block: hash48=%#x already used, rejecting height=%d", hash48, height)
		return false
	}

	key := ht3off5(height, offBits)
	ix.blockContent.Insert(scalar.HeightShard(height), key, nil)
	ix.blockHash.Insert(shard, low32, height)
	ix.indexedHeights.Add(height)
	ix.invalidateCache()
	return true
}

// EraseBlock removes the block at height and the hash48 mapping to it,
// releasing the height's owned vector. It is a no-op for parts that are
// already absent.
func (ix *Indexer) EraseBlock(height uint32, hash48 uint64) {
	if key, _, ok := ix.entryAtHeight(height); ok {
		ix.blockContent.Erase(scalar.HeightShard(height), key)
		ix.indexedHeights.Remove(height)
	}
	shard, low32 := scalar.SplitHash48(hash48)
	ix.blockHash.Erase(shard, low32)
	ix.invalidateCache()
}

// OffsetByBlockHeight returns the file offset of the block at height, or
// -1 if there is none.
func (ix *Indexer) OffsetByBlockHeight(height uint32) int64 {
	key, _, ok := ix.entryAtHeight(height)
	if !ok {
		return -1
	}
	return scalar.DecodeOffset40(key)
}

// OffsetByBlockHash returns the file offset of the block identified by
// hash48, or -1 if there is none.
func (ix *Indexer) OffsetByBlockHash(hash48 uint64) int64 {
	shard, low32 := scalar.SplitHash48(hash48)
	height, ok := ix.blockHash.Get(shard, low32)
	if !ok {
		return -1
	}
	return ix.OffsetByBlockHeight(height)
}

// AddTx records a transaction's id56, hash48 and file offset. It
// returns false, leaving state unchanged, if hash48 is already in use by
// another transaction.
func (ix *Indexer) AddTx(id56 uint64, hash48 uint64, offset40 int64) bool {
	if err := scalar.CheckU56(id56); err != nil {
		panic(err)
	}
	if err := scalar.CheckU48(hash48); err != nil {
		panic(err)
	}
	offBits, err := scalar.EncodeOffset40(offset40)
	if err != nil {
		panic(err)
	}

	hShard, hLow32 := scalar.SplitHash48(hash48)
	if _, ok := ix.txHash.Get(hShard, hLow32); ok {
		ix.log.Debugf("add_tx: hash48=%#x already used, rejecting id56=%#x", hash48, id56)
		return false
	}

	ix.txID.Insert(scalar.IDShard(id56), id56&scalar.Mask40, offBits)
	ix.txHash.Insert(hShard, hLow32, offBits)
	ix.invalidateCache()
	return true
}

// EraseTx removes both the id56 and hash48 mappings for a transaction.
func (ix *Indexer) EraseTx(id56 uint64, hash48 uint64) {
	ix.txID.Erase(scalar.IDShard(id56), id56&scalar.Mask40)
	shard, low32 := scalar.SplitHash48(hash48)
	ix.txHash.Erase(shard, low32)
	ix.invalidateCache()
}

// OffsetByTxID returns the file offset of the transaction identified by
// id56, or -1 if there is none.
func (ix *Indexer) OffsetByTxID(id56 uint64) int64 {
	v, ok := ix.txID.Get(scalar.IDShard(id56), id56&scalar.Mask40)
	if !ok {
		return -1
	}
	return scalar.DecodeOffset40(v)
}

// OffsetByTxHash returns the file offset of the transaction identified by
// hash48, or -1 if there is none.
func (ix *Indexer) OffsetByTxHash(hash48 uint64) int64 {
	shard, low32 := scalar.SplitHash48(hash48)
	v, ok := ix.txHash.Get(shard, low32)
	if !ok {
		return -1
	}
	return scalar.DecodeOffset40(v)
}

// IndexedHeightCount reports how many blocks are currently indexed.
func (ix *Indexer) IndexedHeightCount() uint64 {
	return ix.indexedHeights.GetCardinality()
}

// IndexedHeights returns every currently indexed height in ascending
// order. It is a diagnostic helper, not part of the query path.
func (ix *Indexer) IndexedHeights() []uint32 {
	card := ix.indexedHeights.GetCardinality()
	if card == 0 {
		return nil
	}
	out := make([]uint32, 0, card)
	it := ix.indexedHeights.Iterator()
	for it.HasNext() {
		out = append(out, it.Next())
	}
	return out
}
